// Package report turns pipeline timings into the text table, the timing bar
// chart and the original-versus-filtered comparison figure.
package report
