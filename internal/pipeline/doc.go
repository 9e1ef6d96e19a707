// Package pipeline runs a filter over an image split into row bands.
//
// A Coordinator plans the bands (see internal/partition), hands each rank a
// private copy of its padded band, lets every rank filter and trim its band
// on a parallel.Team, and stitches the trimmed bands back together in rank
// order:
//
//	plan -> scatter -> RunWorker (filter + trim) -> gather -> Assemble
//
// Because every kernel reads at most Spec.Halo() rows beyond a band, the
// assembled image is identical to filtering the whole image at once.
package pipeline
