package report

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Table is the content of the text report printed after a run.
type Table struct {
	Input         string
	Width, Height int
	Filter        string
	Workers       int
	Runs          RunSummary

	// Baseline is true when a serial baseline was computed; Matches then
	// reports whether every run produced the identical image.
	Baseline bool
	Matches  bool
}

type tableLine struct {
	format string
	args   []any
}

// Write prints t to w with English digit grouping.
func (t Table) Write(w io.Writer) error {
	p := message.NewPrinter(language.English)

	lines := []tableLine{
		{"%-18s %s (%d x %d)\n", []any{"Image", t.Input, t.Width, t.Height}},
		{"%-18s %s\n", []any{"Filter", t.Filter}},
		{"%-18s %d\n", []any{"Workers", t.Workers}},
		{"%-18s %d\n", []any{"Runs", t.Runs.Total.N}},
		{"%-18s %s\n", []any{"Parallel total", t.Runs.Total}},
		{"%-18s %s\n", []any{"Parallel compute", t.Runs.Compute}},
	}
	if t.Baseline {
		match := "no"
		if t.Matches {
			match = "yes"
		}
		lines = append(lines,
			tableLine{"%-18s %s\n", []any{"Serial", t.Runs.Serial}},
			tableLine{"%-18s %.2fx\n", []any{"Speedup", t.Runs.Speedup()}},
			tableLine{"%-18s %s\n", []any{"Matches serial", match}},
		)
	}

	for _, l := range lines {
		if _, err := p.Fprintf(w, l.format, l.args...); err != nil {
			return err
		}
	}
	return nil
}
