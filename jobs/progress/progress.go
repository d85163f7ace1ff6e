// Package progress implements the run monitor job: a ticker goroutine that
// samples an atomic counter and reports how far a run has progressed, until
// the target is reached or the run is cancelled. It reports through an
// injected callback and never prints on its own.
package progress

import (
	"context"
	"sync/atomic"
	"time"
)

type Watcher struct {
	counter  *atomic.Uint64
	target   uint64
	interval time.Duration
	report   func(done, total uint64)
	stopped  chan struct{}
}

func New(
	counter *atomic.Uint64,
	target uint64,
	interval time.Duration,
	report func(done, total uint64),
) *Watcher {
	return &Watcher{
		counter:  counter,
		target:   target,
		interval: interval,
		report:   report,
		stopped:  make(chan struct{}),
	}
}

// Run samples and reports until the counter reaches the target or ctx is
// cancelled, then emits one final report and returns. Call it from its own
// goroutine and wait on Done.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.stopped)
	defer func() { w.report(w.counter.Load(), w.target) }()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			n := w.counter.Load()
			if n >= w.target {
				return
			}
			w.report(n, w.target)
		}
	}
}

// Done is closed once Run has emitted its final report and returned.
func (w *Watcher) Done() <-chan struct{} {
	return w.stopped
}
