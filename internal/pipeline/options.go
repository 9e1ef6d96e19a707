package pipeline

import (
	"log/slog"

	"github.com/gogpu/haloblur/internal/image"
)

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	baseline     bool
	sink         ArtifactSink
	tolerateSink bool
	pool         *image.Pool
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger for plan, timing and artifact diagnostics.
// A nil logger keeps the default silent one.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBaseline enables filtering the whole image serially after each run,
// for comparison and the serial timing.
func WithBaseline(enabled bool) Option {
	return func(o *options) {
		o.baseline = enabled
	}
}

// WithArtifacts hands every rank's trimmed band to sink. A sink error fails
// the run unless WithTolerantArtifacts is also given.
func WithArtifacts(sink ArtifactSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithTolerantArtifacts downgrades artifact sink errors to warnings.
func WithTolerantArtifacts() Option {
	return func(o *options) {
		o.tolerateSink = true
	}
}

// WithPool sets the pool padded bands are drawn from and returned to.
// Sharing one pool between coordinators is allowed.
func WithPool(p *image.Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}
