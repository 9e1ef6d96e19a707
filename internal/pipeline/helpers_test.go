package pipeline

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/gogpu/haloblur/internal/filter"
	"github.com/gogpu/haloblur/internal/image"
)

// noiseImage returns a deterministic random image.
func noiseImage(t testing.TB, width, height int, format image.Format, seed uint64) *image.ImageBuf {
	t.Helper()
	img, err := image.NewImageBuf(width, height, format)
	if err != nil {
		t.Fatalf("NewImageBuf(%d, %d) error = %v", width, height, err)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range img.Data() {
		img.Data()[i] = uint8(rng.IntN(256))
	}
	return img
}

// rowImage returns a Gray8 image whose every pixel in row y has value y.
func rowImage(t testing.TB, width, height int) *image.ImageBuf {
	t.Helper()
	img, err := image.NewImageBuf(width, height, image.FormatGray8)
	if err != nil {
		t.Fatalf("NewImageBuf error = %v", err)
	}
	for y := range height {
		row := img.RowBytes(y)
		for x := range row {
			row[x] = uint8(y)
		}
	}
	return img
}

func mustSpec(t testing.TB, kind filter.Kind, radius int) filter.Spec {
	t.Helper()
	s, err := filter.NewSpec(kind, radius)
	if err != nil {
		t.Fatalf("NewSpec(%v, %d) error = %v", kind, radius, err)
	}
	return s
}

func mustCoordinator(t testing.TB, spec filter.Spec, workers int, opts ...Option) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(spec, workers, opts...)
	if err != nil {
		t.Fatalf("NewCoordinator error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// memorySink records bands by rank.
type memorySink struct {
	mu    sync.Mutex
	bands map[int]*image.ImageBuf
	calls int
	fail  func(rank int) error
}

func newMemorySink() *memorySink {
	return &memorySink{bands: make(map[int]*image.ImageBuf)}
}

func (s *memorySink) Put(rank int, band *image.ImageBuf) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail != nil {
		if err := s.fail(rank); err != nil {
			return err
		}
	}
	kept, err := band.Rows(0, band.Height())
	if err != nil {
		return err
	}
	s.bands[rank] = kept
	return nil
}
