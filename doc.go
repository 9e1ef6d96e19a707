// Package haloblur applies a smoothing filter to an image split into
// horizontal bands, one band per worker, and stitches the bands back
// together.
//
// # Overview
//
// Each worker receives its own rows plus a halo of 2*radius rows on either
// side, filters that padded band independently, and trims the halo off
// again. The halo is at least as wide as any kernel's reach, so the stitched
// result is identical, pixel for pixel, to filtering the whole image at once.
//
// # Quick Start
//
//	img, err := haloblur.Load("photo.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	spec, err := haloblur.NewSpec(haloblur.Gaussian, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := haloblur.Blur(ctx, img, spec, haloblur.WithWorkers(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res.Final.Save("blurred.png")
//
// # Filters
//
//   - Gaussian: separable, sigma = radius, truncated at 2*radius taps
//   - Median: per-channel median over a max(3, 2*radius+1) square
//   - Box: per-channel mean over a (2*radius+1) square
//
// All filters replicate edge pixels beyond the image border.
//
// # Repeated runs
//
// Use a Runner to filter many images (or the same image repeatedly for
// timing) without restarting the worker goroutines.
package haloblur
