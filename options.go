package haloblur

import (
	"log/slog"
	"runtime"

	"github.com/gogpu/haloblur/internal/pipeline"
)

// Option configures a Runner or a single Blur call.
//
// Example:
//
//	res, err := haloblur.Blur(ctx, img, spec,
//	    haloblur.WithWorkers(8),
//	    haloblur.WithBaseline(true),
//	    haloblur.WithChunkDir("chunks"))
type Option func(*options)

// options holds the optional configuration of a Runner.
type options struct {
	workers  int
	baseline bool
	sink     ArtifactSink
	chunkDir string
	tolerant bool
	logger   *slog.Logger
}

// defaultOptions returns one worker per available CPU and no extras.
func defaultOptions() options {
	return options{
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of ranks the image is split across.
// Values below 1 are rejected by NewRunner.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBaseline also filters the whole image on one goroutine after every
// run, filling Result.Baseline and Timings.Serial.
func WithBaseline(enabled bool) Option {
	return func(o *options) {
		o.baseline = enabled
	}
}

// WithArtifacts hands each rank's trimmed band to sink after the compute
// phase. It replaces any earlier WithChunkDir.
func WithArtifacts(sink ArtifactSink) Option {
	return func(o *options) {
		o.sink = sink
		o.chunkDir = ""
	}
}

// WithChunkDir writes each rank's trimmed band to dir/chunk_rank{i}.png.
// The directory is created by NewRunner. It replaces any earlier
// WithArtifacts.
func WithChunkDir(dir string) Option {
	return func(o *options) {
		o.chunkDir = dir
		o.sink = nil
	}
}

// WithTolerantArtifacts logs artifact failures as warnings instead of
// failing the run.
func WithTolerantArtifacts() Option {
	return func(o *options) {
		o.tolerant = true
	}
}

// WithLogger overrides the package logger (see SetLogger) for one Runner.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// pipelineOptions translates o for pipeline.NewCoordinator.
func (o options) pipelineOptions() []pipeline.Option {
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithBaseline(o.baseline),
	}
	if o.sink != nil {
		opts = append(opts, pipeline.WithArtifacts(o.sink))
	}
	if o.tolerant {
		opts = append(opts, pipeline.WithTolerantArtifacts())
	}
	return opts
}
