// Package parallel provides the fixed worker team and the synchronization
// barrier used by the partition pipeline.
//
// A Team owns one goroutine per rank for its whole lifetime. Each Run hands
// exactly one task to every rank through the rank's private inbox and joins
// them all: the first failure cancels the run and is returned, and no rank's
// result is used unless every rank succeeded.
package parallel
