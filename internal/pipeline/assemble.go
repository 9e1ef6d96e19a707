package pipeline

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/gogpu/haloblur/internal/image"
)

// ErrAssembly reports trimmed bands that cannot form the final image.
// It is never corrected silently.
var ErrAssembly = errors.New("pipeline: assembly failed")

// Assemble concatenates bands vertically in slice (rank) order into an image
// of exactly height rows. Every band must share the width and format of the
// first one; zero-row bands are allowed.
func Assemble(bands []*image.ImageBuf, height int) (*image.ImageBuf, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: no bands", ErrAssembly)
	}
	if i := lo.IndexOf(bands, (*image.ImageBuf)(nil)); i >= 0 {
		return nil, fmt.Errorf("%w: band %d missing", ErrAssembly, i)
	}

	total := lo.SumBy(bands, func(b *image.ImageBuf) int { return b.Height() })
	if total != height {
		return nil, fmt.Errorf("%w: bands hold %d rows, want %d", ErrAssembly, total, height)
	}

	out, err := image.NewLike(bands[0], height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
	}

	y := 0
	for i, b := range bands {
		if err := out.CopyRowsFrom(b, y); err != nil {
			return nil, fmt.Errorf("%w: band %d: %w", ErrAssembly, i, err)
		}
		y += b.Height()
	}
	return out, nil
}
