// Package partition splits image rows across a fixed number of workers.
//
// Each worker owns a contiguous half-open band of rows. Owned bands never
// overlap and together cover [0, height) exactly once; the last worker takes
// the remainder of height / workers. Around its owned band every worker also
// receives up to 2*radius halo rows on each side, clamped to the image, so
// that a filter reading at most that many rows of context produces the same
// owned rows as it would on the whole image.
//
// For height=100, workers=4, radius=2:
//
//	rank  own        padded
//	0     [0,25)     [0,29)
//	1     [25,50)    [21,54)
//	2     [50,75)    [46,79)
//	3     [75,100)   [71,100)
package partition
