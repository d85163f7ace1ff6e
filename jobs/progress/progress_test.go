package progress

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherReachesTarget(t *testing.T) {
	var counter atomic.Uint64

	var reports atomic.Uint64
	var lastDone, lastTotal atomic.Uint64
	w := New(&counter, 100, time.Millisecond, func(done, total uint64) {
		reports.Add(1)
		lastDone.Store(done)
		lastTotal.Store(total)
	})

	go w.Run(context.Background())
	counter.Store(100)

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after the target was reached")
	}

	if reports.Load() == 0 {
		t.Fatal("expected at least the final report")
	}
	if lastDone.Load() != 100 || lastTotal.Load() != 100 {
		t.Fatalf("final report was (%d, %d), want (100, 100)",
			lastDone.Load(), lastTotal.Load())
	}
}

func TestWatcherCancel(t *testing.T) {
	var counter atomic.Uint64
	w := New(&counter, 1<<40, time.Millisecond, func(done, total uint64) {})

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
