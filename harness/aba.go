package harness

import (
	"sync/atomic"
	"time"

	"strand/vcell"
)

// PlainABA demonstrates the hazard a value-only CAS is blind to. Each trial
// reads an initial value, lets another goroutine complete a full A -> B -> A
// round trip, then attempts a CAS against the stale initial value. The CAS
// is accepted every time even though the state moved twice in between:
// that acceptance is the ABA problem firing.
func PlainABA(cfg Config, rep Reporter) Result {
	start := time.Now()

	var fooled, refused uint64
	for trial := 0; trial < cfg.Trials; trial++ {
		var n atomic.Uint32

		first := n.Load()

		roundTrip := make(chan struct{})
		go func() {
			n.Store(1) // A -> B
			n.Store(0) // B -> A
			close(roundTrip)
		}()
		<-roundTrip

		if n.CompareAndSwap(first, 100) {
			fooled++
		} else {
			refused++
		}
	}

	res := newResult("aba-plain", cfg)
	res.Elapsed = time.Since(start)
	res.Successes = fooled
	res.Failures = refused
	res.Final = fooled
	res.OK = fooled == uint64(cfg.Trials)
	res.Note = "successes count stale CASes wrongly accepted; the hazard must fire every trial"
	rep.Summary(res)
	return res
}

// VersionedABA runs the same round-trip shape against a versioned cell. The
// value cycles back to its original bit pattern, but the version proves the
// intervening mutations, so the stale CAS must be rejected every time and
// classify as an ABA conflict with the version advanced by at least two.
func VersionedABA(cfg Config, rep Reporter) Result {
	start := time.Now()

	var detected, fooled, violations uint64
	for trial := 0; trial < cfg.Trials; trial++ {
		c := vcell.New(0)

		first := c.Load()

		roundTrip := make(chan struct{})
		go func() {
			c.Store(1) // A -> B, version +1
			c.Store(0) // B -> A, version +2
			close(roundTrip)
		}()
		<-roundTrip

		// the pre-check the resolution algorithm prescribes: a moved
		// version means the planned CAS must be abandoned
		second := c.Load()
		if second.Version == first.Version {
			violations++
			continue
		}

		// attempt it anyway to prove the cell rejects it on its own
		actual, ok := c.CompareExchange(first, vcell.Next(first, 100))
		switch {
		case ok:
			fooled++
		case vcell.Classify(first, actual) != vcell.ConflictABA:
			violations++
		case actual.Version < first.Version+2:
			violations++
		default:
			detected++
		}
	}

	res := newResult("aba-versioned", cfg)
	res.Elapsed = time.Since(start)
	res.Successes = detected
	res.Failures = fooled
	res.Violations = violations
	res.Final = detected
	res.OK = fooled == 0 && violations == 0 && detected == uint64(cfg.Trials)
	res.Note = "successes count stale CASes correctly rejected as ABA; failures count the cell being fooled"
	rep.Summary(res)
	return res
}
