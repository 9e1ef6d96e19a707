package pipeline

import (
	"errors"
	"fmt"

	"github.com/gogpu/haloblur/internal/filter"
	"github.com/gogpu/haloblur/internal/image"
	"github.com/gogpu/haloblur/internal/partition"
)

var (
	// ErrRegionMismatch is returned when a padded band does not have the
	// number of rows its Range describes.
	ErrRegionMismatch = errors.New("pipeline: padded region does not match range")

	// ErrTrimMismatch is returned when trimming does not yield the owned row
	// count. It indicates a planner or trim defect.
	ErrTrimMismatch = errors.New("pipeline: trimmed rows do not match owned rows")
)

// RunWorker filters one padded band and trims the halo rows off both ends,
// returning exactly r.OwnRows() rows. The result may have zero rows.
//
// padded is not modified.
func RunWorker(padded *image.ImageBuf, spec filter.Spec, r partition.Range) (*image.ImageBuf, error) {
	if padded == nil {
		return nil, fmt.Errorf("%w: nil band for %v", ErrRegionMismatch, r)
	}
	if padded.Height() != r.PaddedRows() {
		return nil, fmt.Errorf("%w: %v has %d rows, band has %d",
			ErrRegionMismatch, r, r.PaddedRows(), padded.Height())
	}

	filtered, err := filter.Apply(padded, spec)
	if err != nil {
		return nil, err
	}

	lead, tail := r.LeadTrim(), r.TailTrim()
	if lead < 0 || tail < 0 || lead+tail > filtered.Height() {
		return nil, fmt.Errorf("%w: trim %d+%d of %d rows", ErrTrimMismatch, lead, tail, filtered.Height())
	}

	trimmed, err := filtered.Rows(lead, filtered.Height()-tail)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrimMismatch, err)
	}
	if trimmed.Height() != r.OwnRows() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrTrimMismatch, trimmed.Height(), r.OwnRows())
	}
	return trimmed, nil
}
