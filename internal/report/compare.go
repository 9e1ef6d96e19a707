package report

import (
	"errors"
	"fmt"
	stdimage "image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/gogpu/haloblur/internal/image"
)

// MaxPanelWidth bounds the width of each half of the comparison figure.
// Wider images are downscaled.
const MaxPanelWidth = 800

const comparisonGap = 16

// ErrShapeMismatch is returned when the two images of a comparison differ
// in size.
var ErrShapeMismatch = errors.New("report: images differ in size")

// Comparison places original and filtered side by side with a caption under
// each.
func Comparison(original, filtered *image.ImageBuf, leftCaption, rightCaption string) (*stdimage.NRGBA, error) {
	if original.Width() != filtered.Width() || original.Height() != filtered.Height() {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch,
			original.Width(), original.Height(), filtered.Width(), filtered.Height())
	}

	face, err := newFace(16)
	if err != nil {
		return nil, err
	}
	defer func() { _ = face.Close() }()

	left := panel(original)
	right := panel(filtered)
	pw, ph := left.Bounds().Dx(), left.Bounds().Dy()
	captionHeight := lineHeight(face) + comparisonGap

	canvas := imaging.New(2*pw+3*comparisonGap, ph+2*comparisonGap+captionHeight, color.White)
	canvas = imaging.Paste(canvas, left, stdimage.Pt(comparisonGap, comparisonGap))
	canvas = imaging.Paste(canvas, right, stdimage.Pt(2*comparisonGap+pw, comparisonGap))

	baseline := comparisonGap + ph + captionHeight
	ink := color.Gray{Y: 40}
	drawCentered(canvas, face, comparisonGap+pw/2, baseline, leftCaption, ink)
	drawCentered(canvas, face, 2*comparisonGap+pw+pw/2, baseline, rightCaption, ink)

	return canvas, nil
}

// SaveComparison renders Comparison and writes it to path.
func SaveComparison(path string, original, filtered *image.ImageBuf, leftCaption, rightCaption string) error {
	img, err := Comparison(original, filtered, leftCaption, rightCaption)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("report: save comparison: %w", err)
	}
	return nil
}

// panel converts b for the figure, downscaling to MaxPanelWidth.
func panel(b *image.ImageBuf) stdimage.Image {
	src := b.ToStdImage()
	if b.Width() <= MaxPanelWidth {
		return src
	}
	return imaging.Resize(src, MaxPanelWidth, 0, imaging.Lanczos)
}
