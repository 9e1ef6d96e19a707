package image

import "testing"

// rowIndexed returns an RGB8 buffer whose red channel holds the row index
// and whose green channel holds the column index.
func rowIndexed(t *testing.T, width, height int) *ImageBuf {
	t.Helper()
	buf, err := NewImageBuf(width, height, FormatRGB8)
	if err != nil {
		t.Fatalf("NewImageBuf(%d, %d) error = %v", width, height, err)
	}
	for y := range height {
		for x := range width {
			_ = buf.SetRGBA(x, y, uint8(y), uint8(x), 7, 255)
		}
	}
	return buf
}

// pixel returns the samples of pixel (x, y).
func pixel(b *ImageBuf, x, y int) []byte {
	bpp := b.Format().BytesPerPixel()
	return b.RowBytes(y)[x*bpp : (x+1)*bpp]
}

// fill sets every sample of b to v.
func fill(b *ImageBuf, v byte) {
	for y := range b.Height() {
		row := b.RowBytes(y)
		for i := range row {
			row[i] = v
		}
	}
}
