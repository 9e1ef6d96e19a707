package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/haloblur/internal/filter"
	"github.com/gogpu/haloblur/internal/image"
	"github.com/gogpu/haloblur/internal/parallel"
	"github.com/gogpu/haloblur/internal/partition"
)

// ErrArtifact wraps a failure reported by the ArtifactSink.
var ErrArtifact = errors.New("pipeline: artifact sink failed")

// Timings are the durations measured by one Run.
type Timings struct {
	// Compute spans the first to the second barrier: filtering and trimming
	// on all ranks.
	Compute time.Duration

	// Total spans planning, scatter, compute, gather and assembly.
	Total time.Duration

	// Serial is the time to filter the whole image on one goroutine.
	// Zero unless the baseline is enabled.
	Serial time.Duration
}

// Result is the outcome of a successful Run.
type Result struct {
	Plan     partition.Plan
	Final    *image.ImageBuf
	Baseline *image.ImageBuf // nil unless WithBaseline(true)
	Timings  Timings
}

// MatchesBaseline reports whether a baseline was computed and Final is
// identical to it.
func (r *Result) MatchesBaseline() bool {
	return r.Baseline != nil && r.Final.Equal(r.Baseline)
}

// Coordinator runs one filter over images with a fixed number of ranks.
// The ranks are started once and reused by every Run; call Close when done.
//
// Thread safety: Run may be called concurrently; runs are serialized on
// the underlying team.
type Coordinator struct {
	spec    filter.Spec
	workers int
	opts    options
	team    *parallel.Team
}

// NewCoordinator validates spec and workers and starts workers ranks.
func NewCoordinator(spec filter.Spec, workers int, opts ...Option) (*Coordinator, error) {
	if !spec.IsValid() {
		return nil, filter.ErrInvalidSpec
	}
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", partition.ErrInvalidWorkers, workers)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.pool == nil {
		o.pool = image.NewPool(2)
	}

	return &Coordinator{
		spec:    spec,
		workers: workers,
		opts:    o,
		team:    parallel.NewTeam(workers),
	}, nil
}

// Spec returns the filter the coordinator applies.
func (c *Coordinator) Spec() filter.Spec {
	return c.spec
}

// Workers returns the number of ranks.
func (c *Coordinator) Workers() int {
	return c.workers
}

// Close stops the ranks. Run fails with parallel.ErrClosed afterwards.
func (c *Coordinator) Close() {
	c.team.Close()
}

// Run filters img and returns the reassembled result.
//
// Any rank failure fails the whole run; no partial image is returned.
// img is only read.
func (c *Coordinator) Run(ctx context.Context, img *image.ImageBuf) (*Result, error) {
	if img == nil || img.IsEmpty() {
		return nil, fmt.Errorf("pipeline: %w", image.ErrInvalidDimensions)
	}
	log := c.opts.logger
	start := time.Now()

	plan, err := partition.New(img.Height(), c.workers, c.spec.Radius())
	if err != nil {
		return nil, err
	}
	if log.Enabled(ctx, slog.LevelDebug) {
		for _, r := range plan.Ranges {
			log.Debug("pipeline: range", "range", r.String(),
				"lead_trim", r.LeadTrim(), "tail_trim", r.TailTrim())
		}
	}

	padded, err := c.scatter(img, plan)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, b := range padded {
			c.opts.pool.Put(b)
		}
		log.Debug("pipeline: bands returned", "pooled", c.opts.pool.Len())
	}()

	bands, compute, err := c.compute(ctx, plan, padded)
	if err != nil {
		return nil, err
	}

	final, err := Assemble(bands, plan.Height)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Plan:  plan,
		Final: final,
		Timings: Timings{
			Compute: compute,
			Total:   time.Since(start),
		},
	}

	if c.opts.baseline {
		serialStart := time.Now()
		res.Baseline, err = filter.Apply(img, c.spec)
		if err != nil {
			return nil, fmt.Errorf("pipeline: baseline: %w", err)
		}
		res.Timings.Serial = time.Since(serialStart)
	}

	log.Info("pipeline: run complete",
		"filter", c.spec.String(),
		"window", c.spec.WindowSize(),
		"size", fmt.Sprintf("%dx%d", img.Width(), img.Height()),
		"workers", c.workers,
		"compute", res.Timings.Compute,
		"total", res.Timings.Total,
		"serial", res.Timings.Serial)

	return res, nil
}

// scatter copies every rank's padded rows out of img.
func (c *Coordinator) scatter(img *image.ImageBuf, plan partition.Plan) ([]*image.ImageBuf, error) {
	padded := make([]*image.ImageBuf, len(plan.Ranges))
	for i, r := range plan.Ranges {
		band, err := c.opts.pool.Band(img, r.PaddedStart, r.PaddedEnd)
		if err != nil {
			for _, b := range padded[:i] {
				c.opts.pool.Put(b)
			}
			return nil, fmt.Errorf("pipeline: scatter %v: %w", r, err)
		}
		padded[i] = band
	}
	return padded, nil
}

// compute runs RunWorker on every rank between two barriers and gathers the
// trimmed bands by rank. The returned duration spans the barriers.
func (c *Coordinator) compute(ctx context.Context, plan partition.Plan, padded []*image.ImageBuf) ([]*image.ImageBuf, time.Duration, error) {
	var begin, end time.Time
	enter := parallel.NewBarrier(c.workers, func() { begin = time.Now() })
	leave := parallel.NewBarrier(c.workers, func() { end = time.Now() })

	bands := make([]*image.ImageBuf, c.workers)
	log := c.opts.logger

	err := c.team.Run(ctx, func(ctx context.Context, rank int) error {
		r := plan.Ranges[rank]

		if err := enter.Wait(ctx); err != nil {
			return err
		}
		rankStart := time.Now()
		band, err := RunWorker(padded[rank], c.spec, r)
		if err != nil {
			return err
		}
		elapsed := time.Since(rankStart)
		if err := leave.Wait(ctx); err != nil {
			return err
		}

		bands[rank] = band
		log.Debug("pipeline: rank done", "rank", rank, "rows", band.Height(), "elapsed", elapsed)

		if c.opts.sink == nil {
			return nil
		}
		if err := c.opts.sink.Put(rank, band); err != nil {
			if c.opts.tolerateSink {
				log.Warn("pipeline: artifact not written", "rank", rank, "err", err)
				return nil
			}
			return fmt.Errorf("%w: %w", ErrArtifact, err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return bands, end.Sub(begin), nil
}
