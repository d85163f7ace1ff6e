package harness

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"strand/jobs/progress"
)

// FetchAddProgress has every worker bump a shared counter with atomic adds
// while a progress watcher periodically reports how far the run has gotten.
func FetchAddProgress(cfg Config, rep Reporter) Result {
	var counter atomic.Uint64
	target := uint64(cfg.Workers) * uint64(cfg.Iters)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := progress.New(&counter, target, cfg.Interval, func(done, total uint64) {
		rep.Progress("fetch-add", done, total)
	})
	go w.Run(ctx)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < cfg.Iters; j++ {
				counter.Add(1)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	cancel()
	<-w.Done()

	res := newResult("fetch-add", cfg)
	res.Elapsed = elapsed
	res.Successes = counter.Load()
	res.Final = counter.Load()
	res.OK = counter.Load() == target
	res.Note = "final must equal workers*iters"
	rep.Summary(res)
	return res
}
