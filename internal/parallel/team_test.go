package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// Team Creation Tests
// =============================================================================

func TestTeam_Create(t *testing.T) {
	team := NewTeam(4)
	defer team.Close()

	if team.Size() != 4 {
		t.Errorf("Size() = %d, want 4", team.Size())
	}
	if !team.running.Load() {
		t.Error("Team should be running after creation")
	}
}

func TestTeam_CreateDefaultSize(t *testing.T) {
	for _, n := range []int{0, -5} {
		team := NewTeam(n)
		if team.Size() != runtime.GOMAXPROCS(0) {
			t.Errorf("NewTeam(%d).Size() = %d, want GOMAXPROCS", n, team.Size())
		}
		team.Close()
	}
}

// =============================================================================
// Run Tests
// =============================================================================

func TestTeam_RunEveryRankOnce(t *testing.T) {
	team := NewTeam(6)
	defer team.Close()

	counts := make([]atomic.Int32, 6)
	err := team.Run(context.Background(), func(_ context.Context, rank int) error {
		counts[rank].Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for rank := range counts {
		if n := counts[rank].Load(); n != 1 {
			t.Errorf("rank %d ran %d times, want 1", rank, n)
		}
	}
}

func TestTeam_RanksRunConcurrently(t *testing.T) {
	// Every rank waits at a barrier; this only completes if all ranks are
	// live at the same time.
	team := NewTeam(5)
	defer team.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b := NewBarrier(team.Size(), nil)
	err := team.Run(ctx, func(ctx context.Context, _ int) error {
		return b.Wait(ctx)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestTeam_RunReusable(t *testing.T) {
	team := NewTeam(3)
	defer team.Close()

	var total atomic.Int64
	for range 20 {
		err := team.Run(context.Background(), func(_ context.Context, rank int) error {
			total.Add(int64(rank + 1))
			return nil
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}
	if total.Load() != 20*6 {
		t.Errorf("total = %d, want %d", total.Load(), 20*6)
	}
}

func TestTeam_RunFirstErrorWins(t *testing.T) {
	team := NewTeam(4)
	defer team.Close()

	boom := errors.New("boom")
	b := NewBarrier(team.Size(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := team.Run(ctx, func(ctx context.Context, rank int) error {
		if rank == 2 {
			return boom
		}
		// The other ranks would block forever without cancellation.
		return b.Wait(ctx)
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if ctx.Err() != nil {
		t.Error("run should have been released by cancellation, not the timeout")
	}
}

func TestTeam_RunRecoversPanic(t *testing.T) {
	team := NewTeam(2)
	defer team.Close()

	err := team.Run(context.Background(), func(_ context.Context, rank int) error {
		if rank == 1 {
			panic("bad index")
		}
		return nil
	})
	if !errors.Is(err, ErrPanic) {
		t.Errorf("Run() error = %v, want ErrPanic", err)
	}

	// The team survives a panicking rank.
	if err := team.Run(context.Background(), func(context.Context, int) error { return nil }); err != nil {
		t.Errorf("Run() after panic error = %v", err)
	}
}

func TestTeam_RunCanceledContext(t *testing.T) {
	team := NewTeam(2)
	defer team.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := team.Run(ctx, func(context.Context, int) error {
		ran.Store(true)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if ran.Load() {
		t.Error("no rank should run under a canceled context")
	}
}

func TestTeam_RunNilFunc(t *testing.T) {
	team := NewTeam(1)
	defer team.Close()

	if err := team.Run(context.Background(), nil); err == nil {
		t.Error("Run(nil) should fail")
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestTeam_Close(t *testing.T) {
	team := NewTeam(3)
	team.Close()

	if team.running.Load() {
		t.Error("team still running after Close")
	}
	err := team.Run(context.Background(), func(context.Context, int) error { return nil })
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Run() after Close error = %v, want ErrClosed", err)
	}

	// Idempotent.
	team.Close()
}

func TestTeam_CloseWaitsForRun(t *testing.T) {
	team := NewTeam(2)

	started := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool

	go func() {
		_ = team.Run(context.Background(), func(context.Context, int) error {
			once.Do(func() { close(started) })
			time.Sleep(20 * time.Millisecond)
			finished.Store(true)
			return nil
		})
	}()

	<-started
	team.Close()
	if !finished.Load() {
		t.Error("Close returned before the in-flight run finished")
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkTeam_Run(b *testing.B) {
	for _, n := range []int{1, 4, 8} {
		team := NewTeam(n)
		b.Run(time.Duration(n).String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = team.Run(context.Background(), func(context.Context, int) error { return nil })
			}
		})
		team.Close()
	}
}
