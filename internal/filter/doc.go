// Package filter implements the smoothing kernels applied to each row band.
//
// Three kinds are supported:
//   - Gaussian: separable convolution, sigma = radius, truncated at 2*radius taps
//   - Median: per-channel median over a max(3, 2*radius+1) square window
//   - Box: per-channel mean over a (2*radius+1) square window
//
// Every kernel replicates edge pixels when its window leaves the region it
// was given. A kernel never reads more than Spec.Reach rows above or below the
// output row, and Reach never exceeds the 2*radius halo carried by each
// partition, so filtering a halo-padded band and trimming it yields exactly
// the rows that filtering the whole image would.
//
// Apply is pure: it allocates its output and never mutates its input.
package filter
