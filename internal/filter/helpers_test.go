package filter

import (
	"math/rand/v2"
	"testing"

	"github.com/gogpu/haloblur/internal/image"
)

// Test helper functions shared across filter tests.

// uniformBuf creates an RGB8 buffer filled with one color.
func uniformBuf(t testing.TB, w, h int, r, g, b uint8) *image.ImageBuf {
	t.Helper()
	buf, err := image.NewImageBuf(w, h, image.FormatRGB8)
	if err != nil {
		t.Fatalf("NewImageBuf(%d, %d) error = %v", w, h, err)
	}
	for y := range h {
		row := buf.RowBytes(y)
		for x := range w {
			copy(row[x*3:], []byte{r, g, b})
		}
	}
	return buf
}

// pixel returns the samples of pixel (x, y).
func pixel(b *image.ImageBuf, x, y int) []byte {
	ch := b.Channels()
	return b.RowBytes(y)[x*ch : (x+1)*ch]
}

// noiseBuf creates a buffer of the given format filled with seeded noise.
func noiseBuf(t testing.TB, w, h int, format image.Format, seed uint64) *image.ImageBuf {
	t.Helper()
	buf, err := image.NewImageBuf(w, h, format)
	if err != nil {
		t.Fatalf("NewImageBuf(%d, %d) error = %v", w, h, err)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := buf.Data()
	for i := range data {
		data[i] = uint8(rng.UintN(256))
	}
	return buf
}

// mustSpec builds a Spec or fails the test.
func mustSpec(t testing.TB, kind Kind, radius int) Spec {
	t.Helper()
	s, err := NewSpec(kind, radius)
	if err != nil {
		t.Fatalf("NewSpec(%v, %d) error = %v", kind, radius, err)
	}
	return s
}

// absf32 returns the absolute value of a float32.
func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// grayBuf creates a Gray8 buffer filled with v.
func grayBuf(t testing.TB, w, h int, v uint8) *image.ImageBuf {
	t.Helper()
	buf, err := image.NewImageBuf(w, h, image.FormatGray8)
	if err != nil {
		t.Fatalf("NewImageBuf(%d, %d) error = %v", w, h, err)
	}
	for i := range buf.Data() {
		buf.Data()[i] = v
	}
	return buf
}
