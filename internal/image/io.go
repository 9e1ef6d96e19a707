package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrUnsupportedFormat is returned when the image format is not supported.
var ErrUnsupportedFormat = errors.New("image: unsupported format")

// DefaultJPEGQuality is used by Save for .jpg/.jpeg paths.
const DefaultJPEGQuality = 95

// LoadImage loads an image from the given file path and converts it to RGB8.
// The container format is detected from content; PNG, JPEG, GIF, BMP, TIFF
// and WebP are recognized.
func LoadImage(path string) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode decodes an image from the given reader, auto-detecting the format,
// and converts it to RGB8.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img)
}

// Save writes the image to path. The encoding is chosen by extension:
// .png, .jpg and .jpeg are supported.
func (b *ImageBuf) Save(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	var encode func(io.Writer) error
	switch ext {
	case ".png":
		encode = b.EncodePNG
	case ".jpg", ".jpeg":
		encode = func(w io.Writer) error { return b.EncodeJPEG(w, DefaultJPEGQuality) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// SavePNG saves the image as a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if b.IsEmpty() {
		return ErrInvalidDimensions
	}
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG encodes the image as JPEG to the given writer.
func (b *ImageBuf) EncodeJPEG(w io.Writer, quality int) error {
	if b.IsEmpty() {
		return ErrInvalidDimensions
	}
	quality = min(max(quality, 1), 100)

	if err := jpeg.Encode(w, b.ToStdImage(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("image: encode JPEG: %w", err)
	}
	return nil
}

// FromStdImage creates an RGB8 ImageBuf from a standard library image.Image.
// Alpha is dropped without compositing.
func FromStdImage(img image.Image) (*ImageBuf, error) {
	return ConvertStdImage(img, FormatRGB8)
}

// ConvertStdImage creates an ImageBuf of the given format from img.
func ConvertStdImage(img image.Image, format Format) (*ImageBuf, error) {
	bounds := img.Bounds()
	buf, err := NewImageBuf(bounds.Dx(), bounds.Dy(), format)
	if err != nil {
		return nil, err
	}

	// Normalize to NRGBA first; x/image/draw handles every source model and
	// un-premultiplies for us.
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		xdraw.Copy(nrgba, image.Point{}, img, bounds, xdraw.Src, nil)
	}

	for y := range buf.height {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+buf.width*4]
		if format == FormatRGBA8 {
			copy(buf.RowBytes(y), src)
			continue
		}
		for x := range buf.width {
			p := src[x*4 : x*4+4]
			_ = buf.SetRGBA(x, y, p[0], p[1], p[2], p[3])
		}
	}
	return buf, nil
}

// ToStdImage converts the ImageBuf to a standard library image.Image.
// Returns *image.Gray for grayscale and *image.NRGBA otherwise.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch b.format {
	case FormatGray8:
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.RowBytes(y))
		}
		return gray

	case FormatRGBA8:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
		}
		return nrgba

	default:
		// RGB8: expand to opaque NRGBA.
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			row := b.RowBytes(y)
			dstStart := y * nrgba.Stride
			for x := range b.width {
				srcOff := x * 3
				dstOff := dstStart + x*4
				nrgba.Pix[dstOff] = row[srcOff]
				nrgba.Pix[dstOff+1] = row[srcOff+1]
				nrgba.Pix[dstOff+2] = row[srcOff+2]
				nrgba.Pix[dstOff+3] = 255
			}
		}
		return nrgba
	}
}
