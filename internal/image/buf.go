package image

import (
	"bytes"
	"errors"
	"fmt"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")

	// ErrRowRange is returned when a row range is empty-reversed or outside the image.
	ErrRowRange = errors.New("image: invalid row range")
)

// ImageBuf is a row-major pixel buffer with an optional stride.
//
// A buffer may have zero rows: that is how an empty trimmed band is
// represented when there are more workers than rows. Buffers created from
// user input always have at least one row (see NewImageBuf).
//
// Thread safety: ImageBuf is safe for concurrent read access. Write operations
// (SetRGBA, Clear, CopyRowsFrom) require external synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a new image buffer with the given dimensions and format.
// Returns an error if dimensions are invalid or format is unknown.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	return newBuf(width, height, format), nil
}

// newBuf allocates a tightly packed buffer. height may be zero.
func newBuf(width, height int, format Format) *ImageBuf {
	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}
}

// NewLike creates a zeroed buffer with the same width and format as b and
// the given number of rows. rows may be zero.
func NewLike(b *ImageBuf, rows int) (*ImageBuf, error) {
	if rows < 0 {
		return nil, ErrInvalidDimensions
	}
	return newBuf(b.width, rows, b.format), nil
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Format returns the pixel format.
func (b *ImageBuf) Format() Format {
	return b.format
}

// Channels returns the number of samples per pixel.
func (b *ImageBuf) Channels() int {
	return b.format.Channels()
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	end := start + b.format.RowBytes(b.width)
	return b.data[start:end]
}

// pixelOffset returns the byte offset of pixel (x, y) in the data slice,
// or -1 if the coordinates are out of bounds.
func (b *ImageBuf) pixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// SetRGBA sets the color at (x, y) from (r, g, b, a) in 0-255 range.
// For grayscale formats, uses standard luminance weights.
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	offset := b.pixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}

	switch b.format {
	case FormatGray8:
		// Standard luminance: 0.299*R + 0.587*G + 0.114*B
		gray := (int(r)*299 + int(g)*587 + int(bl)*114) / 1000
		b.data[offset] = byte(gray)
	case FormatRGB8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
	case FormatRGBA8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
		b.data[offset+3] = a
	}
	return nil
}

// Clear sets all samples to zero.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Rows returns a deep copy of rows [start, end) as a tightly packed buffer.
// start == end yields a zero-row buffer of the same width and format.
func (b *ImageBuf) Rows(start, end int) (*ImageBuf, error) {
	if start < 0 || end > b.height || start > end {
		return nil, fmt.Errorf("%w: [%d,%d) of %d rows", ErrRowRange, start, end, b.height)
	}
	out := newBuf(b.width, end-start, b.format)
	for y := start; y < end; y++ {
		copy(out.RowBytes(y-start), b.RowBytes(y))
	}
	return out, nil
}

// CopyRowsFrom copies every row of src into b starting at row dstY.
// Widths and formats must match.
func (b *ImageBuf) CopyRowsFrom(src *ImageBuf, dstY int) error {
	if src.width != b.width || src.format != b.format {
		return fmt.Errorf("%w: %dx%s into %dx%s", ErrInvalidDimensions,
			src.width, src.format, b.width, b.format)
	}
	if dstY < 0 || dstY+src.height > b.height {
		return fmt.Errorf("%w: [%d,%d) of %d rows", ErrRowRange, dstY, dstY+src.height, b.height)
	}
	for y := range src.height {
		copy(b.RowBytes(dstY+y), src.RowBytes(y))
	}
	return nil
}

// SameShape reports whether b and other have equal width, height and format.
func (b *ImageBuf) SameShape(other *ImageBuf) bool {
	return other != nil && b.width == other.width && b.height == other.height && b.format == other.format
}

// Equal reports whether b and other have the same shape and identical pixels.
// Stride padding is ignored.
func (b *ImageBuf) Equal(other *ImageBuf) bool {
	_, _, same := b.FirstDiff(other)
	return same
}

// FirstDiff returns the first pixel (in row-major order) that differs between
// b and other, with same=false. For buffers of different shape it returns
// (-1, -1, false). For identical buffers it returns (-1, -1, true).
func (b *ImageBuf) FirstDiff(other *ImageBuf) (x, y int, same bool) {
	if !b.SameShape(other) {
		return -1, -1, false
	}
	bpp := b.format.BytesPerPixel()
	for row := range b.height {
		ra, rb := b.RowBytes(row), other.RowBytes(row)
		if bytes.Equal(ra, rb) {
			continue
		}
		for i := range ra {
			if ra[i] != rb[i] {
				return i / bpp, row, false
			}
		}
	}
	return -1, -1, true
}

// IsEmpty returns true if the image has zero dimensions.
func (b *ImageBuf) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}
