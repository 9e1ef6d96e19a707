package report

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"

	"github.com/gogpu/haloblur/internal/image"
	"github.com/gogpu/haloblur/internal/pipeline"
)

func TestTimingBars(t *testing.T) {
	tm := pipeline.Timings{Compute: time.Second, Total: 2 * time.Second, Serial: 3 * time.Second}

	got := lo.Map(TimingBars(tm, 4), func(b Bar, _ int) string { return b.Label })
	want := []string{"Serial", "Compute (4 workers)", "Total (4 workers)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	tm.Serial = 0
	if n := len(TimingBars(tm, 2)); n != 2 {
		t.Errorf("bars without serial = %d, want 2", n)
	}
}

func TestBarColors(t *testing.T) {
	colors := barColors(3)
	if len(colors) != 3 {
		t.Fatalf("len = %d, want 3", len(colors))
	}
	if colors[0] == colors[1] || colors[1] == colors[2] {
		t.Error("adjacent bars share a colour")
	}
}

func TestChart(t *testing.T) {
	bars := []Bar{
		{Label: "Serial", Value: 4 * time.Second},
		{Label: "Total (2 workers)", Value: 2 * time.Second},
	}
	img, err := Chart(bars, "Blur timing")
	if err != nil {
		t.Fatalf("Chart() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != ChartWidth || b.Dy() != ChartHeight {
		t.Fatalf("size = %v, want %dx%d", b, ChartWidth, ChartHeight)
	}

	// Just above the axis, in the middle of each bar slot.
	slot := (ChartWidth - 2*chartMarginSide) / 5
	y := ChartHeight - chartMarginBottom - 2
	for i := range bars {
		x := chartMarginSide + slot*(2*i+1) + slot/2
		if img.At(x, y) == (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("bar %d not drawn at (%d, %d)", i, x, y)
		}
	}
	// The gap before the first bar stays background.
	if got := img.At(chartMarginSide+slot/2, y); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("gap pixel = %v, want white", got)
	}
}

func TestChart_NoBars(t *testing.T) {
	if _, err := Chart(nil, "x"); !errors.Is(err, ErrNoBars) {
		t.Errorf("Chart(nil) error = %v, want ErrNoBars", err)
	}
}

func TestSaveChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timing_graph.png")
	bars := TimingBars(pipeline.Timings{Compute: time.Millisecond, Total: 2 * time.Millisecond}, 3)
	if err := SaveChart(path, bars, "Blur timing"); err != nil {
		t.Fatalf("SaveChart() error = %v", err)
	}
	img, err := image.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if img.Width() != ChartWidth || img.Height() != ChartHeight {
		t.Errorf("saved chart is %dx%d", img.Width(), img.Height())
	}
}
