package harness

import (
	"sync"
	"sync/atomic"
	"time"

	"strand/vcell"
)

// VersionedCounter increments one cell from many workers through CAS loops.
// Since every successful exchange advances the version by exactly one, the
// final value and the final version must both equal the total number of
// increments, for every interleaving.
func VersionedCounter(cfg Config, rep Reporter) Result {
	c := vcell.New(0)

	var (
		conflicts atomic.Uint64
		wg        sync.WaitGroup
	)

	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < cfg.Iters; i++ {
				for {
					cur := c.Load()
					if _, ok := c.CompareExchange(cur, vcell.Next(cur, cur.Value+1)); ok {
						break
					}
					conflicts.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	want := uint64(cfg.Workers) * uint64(cfg.Iters)
	final := c.Load()

	res := newResult("versioned-counter", cfg)
	res.Elapsed = time.Since(start)
	res.Successes = want
	res.Conflicts = conflicts.Load()
	res.Final = uint64(final.Value)
	res.OK = uint64(final.Value) == want && uint64(final.Version) == want
	res.Note = "value and version must both equal workers*iters"
	rep.Summary(res)
	return res
}
