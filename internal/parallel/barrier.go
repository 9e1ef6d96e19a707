package parallel

import (
	"context"
	"sync"
)

// Barrier blocks each caller of Wait until parties callers have arrived,
// then releases them together. It is cyclic: after a release the next
// parties callers form a new generation.
//
// If action is non-nil it runs exactly once per generation, on the last
// arriving goroutine, before anyone is released.
//
// A generation in which some Wait returned a context error never completes;
// such a barrier must not be reused.
type Barrier struct {
	mu      sync.Mutex
	parties int
	arrived int
	release chan struct{}
	action  func()
}

// NewBarrier creates a barrier for parties goroutines (minimum 1).
func NewBarrier(parties int, action func()) *Barrier {
	return &Barrier{
		parties: max(parties, 1),
		release: make(chan struct{}),
		action:  action,
	}
}

// Wait blocks until all parties have arrived or ctx is done.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mu.Lock()
	release := b.release
	b.arrived++
	if b.arrived == b.parties {
		if b.action != nil {
			b.action()
		}
		b.arrived = 0
		b.release = make(chan struct{})
		b.mu.Unlock()
		close(release)
		return nil
	}
	b.mu.Unlock()

	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
