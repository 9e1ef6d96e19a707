package partition

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// Errors returned by New and Plan.Validate.
var (
	// ErrInvalidHeight is returned for height <= 0.
	ErrInvalidHeight = errors.New("partition: height must be > 0")

	// ErrInvalidWorkers is returned for a worker count below 1.
	ErrInvalidWorkers = errors.New("partition: workers must be >= 1")

	// ErrInvalidRadius is returned for radius < 1.
	ErrInvalidRadius = errors.New("partition: radius must be >= 1")

	// ErrCoverage reports a plan whose owned ranges do not tile [0, height)
	// or whose padded ranges are not clamped correctly. It always indicates a
	// planner defect.
	ErrCoverage = errors.New("partition: row coverage violated")
)

// Range is one worker's share of the image.
// All row ranges are half-open.
type Range struct {
	// Rank is the worker index, 0..N-1.
	Rank int

	// OwnStart and OwnEnd bound the rows this worker contributes to the
	// final image.
	OwnStart, OwnEnd int

	// PaddedStart and PaddedEnd bound the rows the worker receives:
	// the owned rows plus up to Halo rows on each side.
	PaddedStart, PaddedEnd int

	// IsFirst and IsLast mark the workers at the top and bottom of the image.
	IsFirst, IsLast bool
}

// OwnRows returns OwnEnd - OwnStart.
func (r Range) OwnRows() int {
	return r.OwnEnd - r.OwnStart
}

// PaddedRows returns PaddedEnd - PaddedStart.
func (r Range) PaddedRows() int {
	return r.PaddedEnd - r.PaddedStart
}

// LeadTrim returns how many leading rows of the padded band are halo.
func (r Range) LeadTrim() int {
	return r.OwnStart - r.PaddedStart
}

// TailTrim returns how many trailing rows of the padded band are halo.
func (r Range) TailTrim() int {
	return r.PaddedEnd - r.OwnEnd
}

// String formats the range for logs, e.g. "rank 1 own [25,50) padded [21,54)".
func (r Range) String() string {
	return fmt.Sprintf("rank %d own [%d,%d) padded [%d,%d)",
		r.Rank, r.OwnStart, r.OwnEnd, r.PaddedStart, r.PaddedEnd)
}

// Plan is the immutable result of New.
type Plan struct {
	Height    int
	Workers   int
	Radius    int
	Halo      int
	ChunkSize int
	Ranges    []Range
}

// New computes the partition plan for an image of height rows split across
// workers, with a halo of 2*radius rows.
//
// New is deterministic. The returned plan has already passed Validate.
func New(height, workers, radius int) (Plan, error) {
	switch {
	case height <= 0:
		return Plan{}, fmt.Errorf("%w: got %d", ErrInvalidHeight, height)
	case workers < 1:
		return Plan{}, fmt.Errorf("%w: got %d", ErrInvalidWorkers, workers)
	case radius < 1:
		return Plan{}, fmt.Errorf("%w: got %d", ErrInvalidRadius, radius)
	}

	chunk := height / workers
	halo := 2 * radius

	ranges := make([]Range, workers)
	for i := range ranges {
		ownStart := i * chunk
		ownEnd := (i + 1) * chunk
		if i == workers-1 {
			ownEnd = height
		}
		ranges[i] = Range{
			Rank:        i,
			OwnStart:    ownStart,
			OwnEnd:      ownEnd,
			PaddedStart: max(ownStart-halo, 0),
			PaddedEnd:   min(ownEnd+halo, height),
			IsFirst:     i == 0,
			IsLast:      i == workers-1,
		}
	}

	p := Plan{
		Height:    height,
		Workers:   workers,
		Radius:    radius,
		Halo:      halo,
		ChunkSize: chunk,
		Ranges:    ranges,
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Validate checks that owned ranges tile [0, Height) in rank order with no
// gap or overlap, and that every padded range is the owned range extended by
// Halo and clamped to the image. Violations wrap ErrCoverage.
func (p Plan) Validate() error {
	if len(p.Ranges) != p.Workers || p.Workers < 1 {
		return fmt.Errorf("%w: %d ranges for %d workers", ErrCoverage, len(p.Ranges), p.Workers)
	}

	next := 0
	for i, r := range p.Ranges {
		switch {
		case r.Rank != i:
			return fmt.Errorf("%w: range %d has rank %d", ErrCoverage, i, r.Rank)
		case r.OwnStart != next:
			return fmt.Errorf("%w: %v starts at %d, want %d", ErrCoverage, r, r.OwnStart, next)
		case r.OwnEnd < r.OwnStart:
			return fmt.Errorf("%w: %v is reversed", ErrCoverage, r)
		case r.PaddedStart != max(r.OwnStart-p.Halo, 0) || r.PaddedEnd != min(r.OwnEnd+p.Halo, p.Height):
			return fmt.Errorf("%w: %v padding not clamped halo %d", ErrCoverage, r, p.Halo)
		case r.IsFirst != (i == 0) || r.IsLast != (i == p.Workers-1):
			return fmt.Errorf("%w: %v has wrong edge flags", ErrCoverage, r)
		}
		next = r.OwnEnd
	}
	if next != p.Height {
		return fmt.Errorf("%w: ranges end at %d, want %d", ErrCoverage, next, p.Height)
	}

	if total := p.OwnedRows(); total != p.Height {
		return fmt.Errorf("%w: owned rows sum to %d, want %d", ErrCoverage, total, p.Height)
	}
	return nil
}

// OwnedRows returns the sum of owned rows over all ranges.
func (p Plan) OwnedRows() int {
	return lo.SumBy(p.Ranges, Range.OwnRows)
}

// PaddedRows returns the sum of padded rows over all ranges: the number of
// rows actually copied to workers.
func (p Plan) PaddedRows() int {
	return lo.SumBy(p.Ranges, Range.PaddedRows)
}

// Overhead returns the fraction of extra rows filtered because of halos,
// PaddedRows/Height - 1.
func (p Plan) Overhead() float64 {
	if p.Height == 0 {
		return 0
	}
	return float64(p.PaddedRows())/float64(p.Height) - 1
}
