package report

import (
	"fmt"
	stdimage "image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// newFace returns a Go Regular face of the given pixel size.
// The caller must Close it.
func newFace(size float64) (font.Face, error) {
	f, err := goRegular()
	if err != nil {
		return nil, fmt.Errorf("report: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("report: font face: %w", err)
	}
	return face, nil
}

// drawCentered draws s with its baseline at y, centered on cx.
func drawCentered(dst draw.Image, face font.Face, cx, y int, s string, c color.Color) {
	w := font.MeasureString(face, s)
	d := &font.Drawer{
		Dst:  dst,
		Src:  stdimage.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(cx) - w/2, Y: fixed.I(y)},
	}
	d.DrawString(s)
}

// lineHeight returns the ascent plus descent of face in pixels.
func lineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}
