// Package spin implements a busy-wait mutual exclusion lock built on a
// single atomic flag. Waiters poll instead of parking, which keeps
// acquisition latency low under light contention at the cost of CPU time
// under heavy contention. There is no fairness or ticketing; a goroutine
// that needs either should use sync.Mutex instead.
package spin

import (
	"runtime"
	"sync/atomic"
)

const (
	unlocked = 0
	locked   = 1

	// polls of the flag between yields while waiting for release
	maxSpins = 16
)

// Lock is a spinlock. The zero value is an unlocked Lock.
//
// A Lock must not be copied after first use. It carries no ownership: the
// caller is responsible for associating the lock with the data it guards,
// and calling Unlock without holding the lock is a contract violation with
// undefined outcome. None of the operations can fail; contention only adds
// latency.
type Lock struct {
	state atomic.Uint32
}

// Lock acquires l, spinning until it is available.
//
// Acquisition is two-phase. Phase 1 is a CAS of the flag from unlocked to
// locked; the successful CAS synchronizes with the store in Unlock, so
// everything the previous holder wrote before releasing is visible inside
// this critical section. Phase 2, entered only when the CAS loses, waits
// for the flag to read clear using plain loads before retrying phase 1.
// Waiting on loads rather than hammering the CAS keeps the waiters from
// bouncing the cache line while the lock is held.
func (l *Lock) Lock() {
	for {
		if l.state.CompareAndSwap(unlocked, locked) {
			return
		}
		spins := 0
		for l.state.Load() == locked {
			spins++
			if spins > maxSpins {
				spins = 0
				runtime.Gosched()
			}
		}
	}
}

// TryLock makes a single acquisition attempt. It never spins: it either
// reports true and grants ownership, or reports false and grants nothing.
// A false result is an ordinary outcome, not an error.
func (l *Lock) TryLock() bool {
	return l.state.CompareAndSwap(unlocked, locked)
}

// Unlock releases l. The caller must hold the lock.
func (l *Lock) Unlock() {
	l.state.Store(unlocked)
}
