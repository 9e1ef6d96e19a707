// Command haloblur blurs an image by splitting it into row bands, filtering
// the bands in parallel and stitching them back together. It reports how
// long the parallel and serial versions took and draws comparison figures.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/haloblur"
	"github.com/gogpu/haloblur/internal/prompt"
	"github.com/gogpu/haloblur/internal/report"
)

// config holds the flag values of the root command.
type config struct {
	input     string
	kind      haloblur.Kind
	radius    int
	workers   int
	output    string
	chunksDir string
	noChunks  bool
	serial    bool
	reportDir string
	repeat    int
	logLevel  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config{}

	cmd := &cobra.Command{
		Use:   "haloblur",
		Short: "Blur an image in parallel row bands with halo padding",
		Long: `haloblur splits an image into one horizontal band per worker, gives each
band 2*radius extra rows of context on both sides, blurs the bands in
parallel and trims the context off again. The stitched result is identical
to blurring the whole image at once.

Missing --input, --kind or --radius values are asked for interactively.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.input, "input", "i", "", "image to blur (PNG, JPEG, GIF, BMP, TIFF or WebP)")
	f.VarP(&cfg.kind, "kind", "k", "filter kind: gaussian, median or box")
	f.IntVarP(&cfg.radius, "radius", "r", 0, "filter radius, a positive integer")
	f.IntVarP(&cfg.workers, "workers", "w", runtime.GOMAXPROCS(0), "number of parallel workers")
	f.StringVarP(&cfg.output, "output", "o", "blurred.png", "where to write the blurred image (.png or .jpg)")
	f.StringVar(&cfg.chunksDir, "chunks-dir", "chunks", "directory for the per-worker bands")
	f.BoolVar(&cfg.noChunks, "no-chunks", false, "do not write per-worker bands")
	f.BoolVar(&cfg.serial, "serial", true, "also blur serially for timing and comparison")
	f.StringVar(&cfg.reportDir, "report-dir", ".", "directory for the comparison and timing figures; empty disables them")
	f.IntVar(&cfg.repeat, "repeat", 1, "number of timed runs")
	f.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(newPlanCmd())
	return cmd
}

// setupLogger installs a stderr text logger at the given level.
func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	haloblur.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// collect fills in whatever the flags left unset by asking on stdin.
func collect(cmd *cobra.Command, cfg *config) error {
	p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())

	var err error
	if cfg.input == "" {
		if cfg.input, err = p.Filename(); err != nil {
			return err
		}
	}
	kindSet, radiusSet := cmd.Flags().Changed("kind"), cmd.Flags().Changed("radius")
	switch {
	case !kindSet && !radiusSet:
		s, err := p.Spec()
		if err != nil {
			return err
		}
		cfg.kind, cfg.radius = s.Kind(), s.Radius()
	case !kindSet:
		if cfg.kind, err = p.Kind(); err != nil {
			return err
		}
	case !radiusSet:
		if cfg.radius, err = p.Radius(); err != nil {
			return err
		}
	}
	return nil
}

func run(cmd *cobra.Command, cfg *config) error {
	if err := setupLogger(cfg.logLevel); err != nil {
		return err
	}
	if cfg.repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", cfg.repeat)
	}
	if err := collect(cmd, cfg); err != nil {
		return err
	}

	spec, err := haloblur.NewSpec(cfg.kind, cfg.radius)
	if err != nil {
		return err
	}
	img, err := haloblur.Load(cfg.input)
	if err != nil {
		return err
	}

	opts := []haloblur.Option{
		haloblur.WithWorkers(cfg.workers),
		haloblur.WithBaseline(cfg.serial),
	}
	if !cfg.noChunks {
		opts = append(opts, haloblur.WithChunkDir(cfg.chunksDir))
	}
	runner, err := haloblur.NewRunner(spec, opts...)
	if err != nil {
		return err
	}
	defer runner.Close()

	var (
		last    *haloblur.Result
		timings = make([]haloblur.Timings, 0, cfg.repeat)
		matches = true
	)
	for range cfg.repeat {
		res, err := runner.Run(cmd.Context(), img)
		if err != nil {
			return err
		}
		timings = append(timings, res.Timings)
		matches = matches && res.MatchesBaseline()
		last = res
	}

	if err := last.Final.Save(cfg.output); err != nil {
		return err
	}
	if last.Baseline != nil {
		serialPath := filepath.Join(filepath.Dir(cfg.output), "serial_blurred"+filepath.Ext(cfg.output))
		if err := last.Baseline.Save(serialPath); err != nil {
			return err
		}
	}

	summary := report.SummarizeRuns(timings)
	table := report.Table{
		Input:    cfg.input,
		Width:    img.Width(),
		Height:   img.Height(),
		Filter:   spec.String(),
		Workers:  runner.Workers(),
		Runs:     summary,
		Baseline: cfg.serial,
		Matches:  matches,
	}
	if err := table.Write(cmd.OutOrStdout()); err != nil {
		return err
	}

	if cfg.reportDir == "" {
		return nil
	}
	return writeFigures(cfg.reportDir, img, last.Final, spec, summary, runner.Workers())
}

// writeFigures saves original_vs_blurred.png and timing_graph.png to dir.
func writeFigures(dir string, original, blurred *haloblur.Image, spec haloblur.Spec, summary report.RunSummary, workers int) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	caption := fmt.Sprintf("%s Blur (radius %d)", cases.Title(language.English).String(spec.Kind().String()), spec.Radius())
	if err := report.SaveComparison(filepath.Join(dir, "original_vs_blurred.png"), original, blurred, "Original", caption); err != nil {
		return err
	}

	title := "Blur timing: " + spec.String()
	bars := report.TimingBars(summary.Mean(), workers)
	return report.SaveChart(filepath.Join(dir, "timing_graph.png"), bars, title)
}
