package report

import (
	"errors"
	"fmt"
	stdimage "image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/haloblur/internal/pipeline"
)

// ErrNoBars is returned when a chart has nothing to plot.
var ErrNoBars = errors.New("report: no bars to plot")

// Chart dimensions in pixels.
const (
	ChartWidth  = 640
	ChartHeight = 420

	chartMarginTop    = 56
	chartMarginBottom = 56
	chartMarginSide   = 40
)

// Bar is one labelled duration in the timing chart.
type Bar struct {
	Label string
	Value time.Duration
}

// TimingBars returns the bars for one set of timings: Serial (when
// measured), then Compute and Total for the given worker count.
func TimingBars(t pipeline.Timings, workers int) []Bar {
	bars := make([]Bar, 0, 3)
	if t.Serial > 0 {
		bars = append(bars, Bar{Label: "Serial", Value: t.Serial})
	}
	return append(bars,
		Bar{Label: fmt.Sprintf("Compute (%d workers)", workers), Value: t.Compute},
		Bar{Label: fmt.Sprintf("Total (%d workers)", workers), Value: t.Total},
	)
}

// barColors returns n evenly spaced hues of equal lightness and chroma.
func barColors(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		h := 210 + float64(i)*360/float64(max(n, 1))
		colors[i] = colorful.Hcl(h, 0.45, 0.62).Clamped()
	}
	return colors
}

// Chart draws a bar chart of bars, heights proportional to the longest
// duration, each bar labelled with its name below and its value in seconds
// above.
func Chart(bars []Bar, title string) (*stdimage.RGBA, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	labelFace, err := newFace(13)
	if err != nil {
		return nil, err
	}
	defer func() { _ = labelFace.Close() }()
	titleFace, err := newFace(18)
	if err != nil {
		return nil, err
	}
	defer func() { _ = titleFace.Close() }()

	img := stdimage.NewRGBA(stdimage.Rect(0, 0, ChartWidth, ChartHeight))
	xdraw.Draw(img, img.Bounds(), stdimage.White, stdimage.Point{}, xdraw.Src)

	ink := color.Gray{Y: 40}
	drawCentered(img, titleFace, ChartWidth/2, chartMarginTop-lineHeight(titleFace), title, ink)

	plotTop := chartMarginTop
	plotBottom := ChartHeight - chartMarginBottom
	plotHeight := plotBottom - plotTop - lineHeight(labelFace)

	var longest time.Duration
	for _, b := range bars {
		longest = max(longest, b.Value)
	}

	// Bars and gaps share the width equally: gap bar gap bar ... gap.
	slot := (ChartWidth - 2*chartMarginSide) / (2*len(bars) + 1)
	colors := barColors(len(bars))

	for i, b := range bars {
		h := 0
		if longest > 0 {
			h = int(float64(plotHeight) * float64(b.Value) / float64(longest))
		}
		x0 := chartMarginSide + slot*(2*i+1)
		rect := stdimage.Rect(x0, plotBottom-h, x0+slot, plotBottom)
		xdraw.Draw(img, rect, stdimage.NewUniform(colors[i]), stdimage.Point{}, xdraw.Src)

		cx := x0 + slot/2
		drawCentered(img, labelFace, cx, rect.Min.Y-4, fmt.Sprintf("%.4f s", b.Value.Seconds()), ink)
		drawCentered(img, labelFace, cx, plotBottom+lineHeight(labelFace)+4, b.Label, ink)
	}

	axis := stdimage.Rect(chartMarginSide, plotBottom, ChartWidth-chartMarginSide, plotBottom+1)
	xdraw.Draw(img, axis, stdimage.NewUniform(ink), stdimage.Point{}, xdraw.Src)

	return img, nil
}

// SaveChart renders bars with Chart and writes the image to path. The
// encoding follows the file extension.
func SaveChart(path string, bars []Bar, title string) error {
	img, err := Chart(bars, title)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("report: save chart: %w", err)
	}
	return nil
}
