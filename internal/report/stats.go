package report

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/gogpu/haloblur/internal/pipeline"
)

// Summary describes repeated measurements of one duration.
type Summary struct {
	N      int
	Mean   time.Duration
	StdDev time.Duration
}

// Summarize returns the mean and sample standard deviation of samples.
// StdDev is zero for fewer than two samples.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	xs := lo.Map(samples, func(d time.Duration, _ int) float64 { return d.Seconds() })
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 || math.IsNaN(std) {
		std = 0
	}
	return Summary{
		N:      len(samples),
		Mean:   seconds(mean),
		StdDev: seconds(std),
	}
}

// String formats the summary in seconds, e.g. "0.012345 s ± 0.000210 s".
func (s Summary) String() string {
	if s.N < 2 {
		return fmt.Sprintf("%.6f s", s.Mean.Seconds())
	}
	return fmt.Sprintf("%.6f s ± %.6f s", s.Mean.Seconds(), s.StdDev.Seconds())
}

// RunSummary summarizes the three timings over repeated runs.
type RunSummary struct {
	Compute Summary
	Total   Summary
	Serial  Summary // zero when no run computed a baseline
}

// SummarizeRuns summarizes every timing across runs.
// Runs without a serial measurement do not count toward Serial.
func SummarizeRuns(runs []pipeline.Timings) RunSummary {
	serial := lo.FilterMap(runs, func(t pipeline.Timings, _ int) (time.Duration, bool) {
		return t.Serial, t.Serial > 0
	})
	return RunSummary{
		Compute: Summarize(lo.Map(runs, func(t pipeline.Timings, _ int) time.Duration { return t.Compute })),
		Total:   Summarize(lo.Map(runs, func(t pipeline.Timings, _ int) time.Duration { return t.Total })),
		Serial:  Summarize(serial),
	}
}

// Mean returns the mean timings as a single pipeline.Timings.
func (s RunSummary) Mean() pipeline.Timings {
	return pipeline.Timings{
		Compute: s.Compute.Mean,
		Total:   s.Total.Mean,
		Serial:  s.Serial.Mean,
	}
}

// Speedup returns serial over parallel total time, or 0 when either is
// unknown.
func (s RunSummary) Speedup() float64 {
	if s.Serial.Mean <= 0 || s.Total.Mean <= 0 {
		return 0
	}
	return s.Serial.Mean.Seconds() / s.Total.Mean.Seconds()
}

func seconds(f float64) time.Duration {
	return time.Duration(math.Round(f * float64(time.Second)))
}
