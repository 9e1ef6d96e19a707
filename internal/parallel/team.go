package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("parallel: team closed")

	// ErrPanic wraps a panic recovered from a rank function.
	ErrPanic = errors.New("parallel: rank panicked")
)

// RankFunc is the work a single rank performs in one Run.
// ctx is canceled as soon as any rank fails.
type RankFunc func(ctx context.Context, rank int) error

// Team is a fixed set of worker goroutines addressed by rank 0..Size()-1.
//
// Every rank has its own inbox; Run delivers exactly one task to each.
// There is no work stealing: rank i always executes task i.
//
// Thread safety: Run and Close are safe for concurrent use; concurrent Runs
// are serialized.
type Team struct {
	size int

	// inboxes holds one single-slot queue per rank.
	inboxes []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the team is accepting runs.
	running atomic.Bool

	// runMu serializes collective runs.
	runMu sync.Mutex
}

// NewTeam starts a team with size ranks.
// If size is 0 or negative, GOMAXPROCS is used.
func NewTeam(size int) *Team {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	t := &Team{
		size:    size,
		inboxes: make([]chan func(), size),
		done:    make(chan struct{}),
	}
	for i := range size {
		t.inboxes[i] = make(chan func(), 1)
	}

	t.running.Store(true)

	t.wg.Add(size)
	for rank := range size {
		go t.worker(rank)
	}

	return t
}

// worker is the main loop for each rank goroutine.
func (t *Team) worker(rank int) {
	defer t.wg.Done()

	inbox := t.inboxes[rank]
	for {
		select {
		case <-t.done:
			// Finish anything already delivered so its caller is released.
			t.drainInbox(inbox)
			return
		case task := <-inbox:
			task()
		}
	}
}

// drainInbox executes all remaining work in an inbox.
func (t *Team) drainInbox(inbox chan func()) {
	for {
		select {
		case task := <-inbox:
			task()
		default:
			return
		}
	}
}

// Run executes fn once on every rank and waits for all of them.
//
// It returns nil only if every rank returned nil. Otherwise it returns the
// first error, wrapped with the failing rank; the remaining ranks observe a
// canceled context. A panic in fn is recovered and reported as ErrPanic.
func (t *Team) Run(ctx context.Context, fn RankFunc) error {
	if fn == nil {
		return errors.New("parallel: nil rank function")
	}

	t.runMu.Lock()
	defer t.runMu.Unlock()

	if !t.running.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for rank := range t.size {
		g.Go(func() error {
			result := make(chan error, 1)
			task := func() { result <- invoke(gctx, rank, fn) }

			select {
			case t.inboxes[rank] <- task:
			case <-t.done:
				return ErrClosed
			case <-gctx.Done():
				return gctx.Err()
			}
			return <-result
		})
	}

	return g.Wait()
}

// invoke runs fn for one rank, converting panics into errors.
func invoke(ctx context.Context, rank int, fn RankFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: rank %d: %v", ErrPanic, rank, r)
		}
	}()

	if err := fn(ctx, rank); err != nil {
		return fmt.Errorf("rank %d: %w", rank, err)
	}
	return nil
}

// Close stops the team after any in-flight Run has finished.
// Close is safe to call multiple times.
func (t *Team) Close() {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	if !t.running.CompareAndSwap(true, false) {
		return
	}

	close(t.done)
	t.wg.Wait()
}

// Size returns the number of ranks.
func (t *Team) Size() int {
	return t.size
}
