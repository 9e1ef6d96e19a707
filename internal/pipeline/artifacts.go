package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/haloblur/internal/image"
)

// ArtifactSink receives each rank's trimmed band after the compute phase.
// Put is called concurrently from different ranks, once per rank per run.
type ArtifactSink interface {
	Put(rank int, band *image.ImageBuf) error
}

// ChunkName returns the file name used for a rank's band.
func ChunkName(rank int) string {
	return fmt.Sprintf("chunk_rank%d.png", rank)
}

// DirSink writes every band to Dir as a PNG named by ChunkName.
// Zero-row bands have nothing to encode and are skipped.
type DirSink struct {
	Dir string
}

// NewDirSink creates dir (and parents) and returns a sink writing into it.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("pipeline: create chunk dir: %w", err)
	}
	return &DirSink{Dir: dir}, nil
}

// Put implements ArtifactSink.
func (s *DirSink) Put(rank int, band *image.ImageBuf) error {
	if band.IsEmpty() {
		return nil
	}
	if err := band.SavePNG(s.Path(rank)); err != nil {
		return fmt.Errorf("pipeline: save chunk %d: %w", rank, err)
	}
	return nil
}

// Path returns the file the band of rank is written to.
func (s *DirSink) Path(rank int) string {
	return filepath.Join(s.Dir, ChunkName(rank))
}
