package harness

import (
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"strand/domain/inventory"
	"strand/infra/memory"
	"strand/infra/sequence"
)

const flashSaleProduct = 1001

// FlashSale races cfg.Buyers buyers for cfg.Stock units of one product.
// Stock deduction goes through the versioned cell, the order log through
// the spinlock. Conservation must hold: successful buyers equal the units
// sold, the ledger holds exactly one order per unit, and nothing oversells.
func FlashSale(cfg Config, rep Reporter) Result {
	pool := memory.NewPool(func() *inventory.Order { return &inventory.Order{} })
	ring := memory.NewRetireRing(ringSize(cfg.Stock))
	svc := inventory.NewService(cfg.Stock, pool, ring, sequence.New(0))

	var (
		successes atomic.Uint64
		soldOut   atomic.Uint64
		conflicts atomic.Uint64
		wg        sync.WaitGroup
	)

	start := time.Now()
	for b := 0; b < cfg.Buyers; b++ {
		wg.Add(1)
		go func(user uint32) {
			defer wg.Done()
			if cfg.Think > 0 {
				time.Sleep(rand.N(cfg.Think))
			}
			r, err := svc.Deduct(user, flashSaleProduct, 1)
			if err != nil {
				if errors.Is(err, inventory.ErrOutOfStock) {
					soldOut.Add(1)
				}
				return
			}
			successes.Add(1)
			conflicts.Add(uint64(r.Retries))
		}(uint32(b + 1))
	}
	wg.Wait()
	elapsed := time.Since(start)

	stats := svc.Stats()
	wantSold := uint64(cfg.Stock)
	if uint64(cfg.Buyers) < wantSold {
		wantSold = uint64(cfg.Buyers)
	}

	retired := svc.Retire()
	reclaimed := svc.Reclaim()

	res := newResult("flash-sale", cfg)
	res.Elapsed = elapsed
	res.Successes = successes.Load()
	res.Failures = soldOut.Load()
	res.Conflicts = conflicts.Load()
	res.Final = uint64(stats.Remaining)
	res.OK = successes.Load() == wantSold &&
		uint64(stats.Orders) == wantSold &&
		uint64(stats.Version) == wantSold &&
		uint64(stats.Remaining) == uint64(cfg.Stock)-wantSold &&
		retired == int(wantSold) &&
		reclaimed == retired
	res.Note = "successes must equal units sold; final is remaining stock"
	rep.Summary(res)
	return res
}

// ringSize picks a power of two comfortably above the order count.
func ringSize(stock uint32) uint64 {
	size := uint64(64)
	for size < uint64(stock)*2 {
		size <<= 1
	}
	return size
}
