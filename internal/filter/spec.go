package filter

import (
	"fmt"

	"github.com/gogpu/haloblur/internal/image"
)

// kernel is the closed set of filter implementations. The concrete value is
// chosen once in NewSpec.
type kernel interface {
	// reach is the number of source rows (and columns) read on each side of
	// an output pixel.
	reach() int

	// apply filters src into dst. Both have the same shape and at least one row.
	apply(dst, src *image.ImageBuf)
}

// Spec is an immutable filter configuration: a kind, a radius and the kernel
// bound to them. The zero Spec is invalid; build one with NewSpec.
// Spec values are safe to share between goroutines.
type Spec struct {
	kind   Kind
	radius int
	k      kernel
}

// NewSpec validates kind and radius and binds the kernel implementation.
func NewSpec(kind Kind, radius int) (Spec, error) {
	if radius < 1 {
		return Spec{}, fmt.Errorf("%w: got %d", ErrInvalidRadius, radius)
	}

	var k kernel
	switch kind {
	case KindGaussian:
		k = newGaussian(radius)
	case KindMedian:
		k = newMedian(radius)
	case KindBox:
		k = newBox(radius)
	default:
		return Spec{}, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}

	return Spec{kind: kind, radius: radius, k: k}, nil
}

// ParseSpec is ParseKind followed by NewSpec.
func ParseSpec(kind string, radius int) (Spec, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Spec{}, err
	}
	return NewSpec(k, radius)
}

// Kind returns the filter kind.
func (s Spec) Kind() Kind {
	return s.kind
}

// Radius returns the user-facing radius.
func (s Spec) Radius() int {
	return s.radius
}

// Halo returns the number of context rows a partition carries on each side:
// 2 * radius.
func (s Spec) Halo() int {
	return 2 * s.radius
}

// Reach returns how many rows above and below an output row the kernel reads.
// Reach() <= Halo() for every kind.
func (s Spec) Reach() int {
	if s.k == nil {
		return 0
	}
	return s.k.reach()
}

// WindowSize returns the side length of the square neighbourhood (for
// Gaussian, the kernel length).
func (s Spec) WindowSize() int {
	return 2*s.Reach() + 1
}

// IsValid reports whether s was built by NewSpec.
func (s Spec) IsValid() bool {
	return s.k != nil
}

// String returns e.g. "gaussian(r=3)".
func (s Spec) String() string {
	return fmt.Sprintf("%s(r=%d)", s.kind, s.radius)
}

// Apply filters src with s and returns a new buffer of the same shape and
// format. Zero-row inputs produce zero-row outputs.
func Apply(src *image.ImageBuf, s Spec) (*image.ImageBuf, error) {
	if !s.IsValid() {
		return nil, ErrInvalidSpec
	}
	if src == nil {
		return nil, fmt.Errorf("filter: nil source")
	}

	dst, err := image.NewLike(src, src.Height())
	if err != nil {
		return nil, err
	}
	if src.IsEmpty() {
		return dst, nil
	}

	s.k.apply(dst, src)
	return dst, nil
}

// clampIndex clamps i to [0, n-1] (edge replication).
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
