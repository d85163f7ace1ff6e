package vcell

import (
	"sync"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 42, 1<<31 - 1, 1 << 31, ^uint32(0)}
	for _, v := range values {
		for _, ver := range values {
			p := Pair{Value: v, Version: ver}
			if got := Unpack(Pack(p)); got != p {
				t.Fatalf("round trip of %+v returned %+v", p, got)
			}
		}
	}
}

func TestPackLayout(t *testing.T) {
	// version must land in the high half, value in the low half
	w := Pack(Pair{Value: 0xAABBCCDD, Version: 0x11223344})
	if w != 0x11223344AABBCCDD {
		t.Fatalf("unexpected packed layout: %#x", w)
	}
}

func TestNewAndLoad(t *testing.T) {
	c := New(10)
	p := c.Load()
	if p.Value != 10 || p.Version != 0 {
		t.Fatalf("expected (10, 0), got %+v", p)
	}
}

func TestStoreAdvancesVersionByOne(t *testing.T) {
	c := New(10)

	p := c.Store(20)
	if p.Value != 20 || p.Version != 1 {
		t.Fatalf("expected (20, 1), got %+v", p)
	}

	p = c.Store(30)
	if p.Value != 30 || p.Version != 2 {
		t.Fatalf("expected (30, 2), got %+v", p)
	}

	if got := c.Load(); got != p {
		t.Fatalf("Load returned %+v, want %+v", got, p)
	}
}

func TestCompareExchangeUnchangedSucceeds(t *testing.T) {
	c := New(5)

	// no mutation between the load and the CAS, so it must succeed
	cur := c.Load()
	next, ok := c.CompareExchange(cur, Next(cur, 100))
	if !ok {
		t.Fatalf("CompareExchange against the current pair failed: %+v", next)
	}
	if next.Value != 100 || next.Version != cur.Version+1 {
		t.Fatalf("expected (100, %d), got %+v", cur.Version+1, next)
	}
}

func TestCompareExchangeStaleFails(t *testing.T) {
	c := New(5)
	stale := c.Load()
	c.Store(6)

	actual, ok := c.CompareExchange(stale, Next(stale, 100))
	if ok {
		t.Fatal("CompareExchange against a stale pair succeeded")
	}
	if actual.Value != 6 || actual.Version != 1 {
		t.Fatalf("expected actual (6, 1), got %+v", actual)
	}
	if k := Classify(stale, actual); k != ConflictRaced {
		t.Fatalf("expected raced conflict, got %v", k)
	}
}

// TestABADetection reproduces the classic hazard: the value cycles back to
// its original bit pattern, so a value-only CAS would succeed, but the
// versioned CAS must reject it and the version must prove the round trip.
func TestABADetection(t *testing.T) {
	const v0 = 7

	c := New(v0)
	first := c.Load()

	c.Store(9)  // A -> B
	c.Store(v0) // B -> A

	actual, ok := c.CompareExchange(first, Next(first, 100))
	if ok {
		t.Fatal("stale CAS was accepted despite an intervening round trip")
	}
	if actual.Value != v0 {
		t.Fatalf("expected value %d back, got %+v", v0, actual)
	}
	if actual.Version < first.Version+2 {
		t.Fatalf("version %d does not prove two mutations (initial %d)",
			actual.Version, first.Version)
	}
	if k := Classify(first, actual); k != ConflictABA {
		t.Fatalf("expected ABA conflict, got %v", k)
	}
}

func TestClassify(t *testing.T) {
	exp := Pair{Value: 7, Version: 3}

	if k := Classify(exp, Pair{Value: 7, Version: 5}); k != ConflictABA {
		t.Errorf("same value, higher version: got %v", k)
	}
	if k := Classify(exp, Pair{Value: 9, Version: 4}); k != ConflictRaced {
		t.Errorf("different value: got %v", k)
	}
	if k := Classify(exp, exp); k != ConflictInvariant {
		t.Errorf("identical pairs: got %v", k)
	}
}

// TestVersionMonotonicUnderContention hammers one cell with CAS-loop
// increments from several goroutines. Every successful exchange advances
// the version by exactly one, so the final version and value must both
// equal the total number of successful mutations.
func TestVersionMonotonicUnderContention(t *testing.T) {
	const (
		workers = 4
		iters   = 1000
	)

	c := New(0)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				for {
					cur := c.Load()
					if _, ok := c.CompareExchange(cur, Next(cur, cur.Value+1)); ok {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	p := c.Load()
	if p.Value != workers*iters || p.Version != workers*iters {
		t.Fatalf("expected (%d, %d), got %+v", workers*iters, workers*iters, p)
	}
}

// TestConflictNeverInvariantBreach races CAS attempts against a mutator
// that keeps flipping the value, and checks that no failure ever classifies
// as an invariant breach: as long as every write goes through the cell's
// entry points, actual == expected on failure is impossible.
func TestConflictNeverInvariantBreach(t *testing.T) {
	const iters = 5000

	c := New(0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < iters; i++ {
			for {
				cur := c.Load()
				if _, ok := c.CompareExchange(cur, Next(cur, cur.Value^1)); ok {
					break
				}
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		stale := c.Load()
		if actual, ok := c.CompareExchange(stale, Next(stale, stale.Value)); !ok {
			if k := Classify(stale, actual); k == ConflictInvariant {
				t.Fatalf("invariant breach reported: expected %+v, actual %+v",
					stale, actual)
			}
		}
	}
}
