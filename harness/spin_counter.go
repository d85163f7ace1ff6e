package harness

import (
	"sync"
	"sync/atomic"
	"time"

	"strand/spin"
)

// SpinCounter has every worker increment a shared non-atomic counter under
// the spinlock. Mutual exclusion holds exactly when the final count equals
// workers times iterations.
func SpinCounter(cfg Config, rep Reporter) Result {
	var (
		mu      spin.Lock
		counter uint64 // guarded by mu; deliberately not atomic
		wg      sync.WaitGroup
	)

	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < cfg.Iters; i++ {
				mu.Lock()
				counter++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	want := uint64(cfg.Workers) * uint64(cfg.Iters)
	res := newResult("spin-counter", cfg)
	res.Elapsed = time.Since(start)
	res.Successes = want
	res.Final = counter
	res.OK = counter == want
	res.Note = "final must equal workers*iters"
	rep.Summary(res)
	return res
}

// TryLockRace has every worker hammer TryLock. A non-atomic flag set inside
// the critical section must never be observed already set on entry, and
// every acquisition must pair with exactly one release.
func TryLockRace(cfg Config, rep Reporter) Result {
	var (
		mu       spin.Lock
		held     bool // guarded by mu
		acquired atomic.Uint64
		released atomic.Uint64
		missed   atomic.Uint64
		overlaps atomic.Uint64
		wg       sync.WaitGroup
	)

	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < cfg.Iters; i++ {
				if !mu.TryLock() {
					missed.Add(1)
					continue
				}
				if held {
					overlaps.Add(1)
				}
				held = true
				acquired.Add(1)
				held = false
				released.Add(1)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	res := newResult("trylock-race", cfg)
	res.Elapsed = time.Since(start)
	res.Successes = acquired.Load()
	res.Failures = missed.Load()
	res.Violations = overlaps.Load()
	res.Final = released.Load()
	res.OK = overlaps.Load() == 0 && acquired.Load() == released.Load()
	res.Note = "successes must equal final (releases); violations are overlapping acquisitions"
	rep.Summary(res)
	return res
}
