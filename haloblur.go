package haloblur

import (
	"context"

	"github.com/gogpu/haloblur/internal/filter"
	"github.com/gogpu/haloblur/internal/image"
	"github.com/gogpu/haloblur/internal/pipeline"
)

// Kind selects the smoothing filter.
type Kind = filter.Kind

// Filter kinds.
const (
	Gaussian = filter.KindGaussian
	Median   = filter.KindMedian
	Box      = filter.KindBox
)

// Spec is an immutable filter kind and radius. Build one with NewSpec or
// ParseSpec.
type Spec = filter.Spec

// Image is an 8-bit-per-channel pixel buffer.
type Image = image.ImageBuf

// Result is the outcome of one run: the plan, the reassembled image, the
// optional serial baseline and the timings.
type Result = pipeline.Result

// Timings are the compute, total and serial durations of one run.
type Timings = pipeline.Timings

// ArtifactSink receives each rank's trimmed band.
type ArtifactSink = pipeline.ArtifactSink

// NewSpec returns a filter spec; radius must be at least 1.
func NewSpec(kind Kind, radius int) (Spec, error) {
	return filter.NewSpec(kind, radius)
}

// ParseSpec parses a kind name ("gaussian", "median", "box", any case) and
// returns the spec for radius.
func ParseSpec(kind string, radius int) (Spec, error) {
	return filter.ParseSpec(kind, radius)
}

// Load decodes an image file into RGB.
func Load(path string) (*Image, error) {
	return image.LoadImage(path)
}

// Serial filters img on the calling goroutine. It is the reference the
// partitioned result is compared against.
func Serial(img *Image, spec Spec) (*Image, error) {
	return filter.Apply(img, spec)
}

// Runner filters images with a fixed spec and worker count. Its ranks are
// started once and reused by every Run; Close releases them.
type Runner struct {
	coord *pipeline.Coordinator
}

// NewRunner validates spec and the options and starts the ranks.
func NewRunner(spec Spec, opts ...Option) (*Runner, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.chunkDir != "" {
		sink, err := pipeline.NewDirSink(o.chunkDir)
		if err != nil {
			return nil, err
		}
		o.sink = sink
	}

	coord, err := pipeline.NewCoordinator(spec, o.workers, o.pipelineOptions()...)
	if err != nil {
		return nil, err
	}
	return &Runner{coord: coord}, nil
}

// Run splits img into row bands, filters them in parallel and reassembles
// the result. img is not modified.
func (r *Runner) Run(ctx context.Context, img *Image) (*Result, error) {
	return r.coord.Run(ctx, img)
}

// Workers returns the number of ranks.
func (r *Runner) Workers() int {
	return r.coord.Workers()
}

// Spec returns the filter spec.
func (r *Runner) Spec() Spec {
	return r.coord.Spec()
}

// Close stops the ranks. It is safe to call more than once.
func (r *Runner) Close() {
	r.coord.Close()
}

// Blur runs img through a Runner built from spec and opts once.
func Blur(ctx context.Context, img *Image, spec Spec, opts ...Option) (*Result, error) {
	r, err := NewRunner(spec, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Run(ctx, img)
}
