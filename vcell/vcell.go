// Package vcell implements a versioned atomic cell: a (value, version) pair
// bit-packed into a single 64-bit word, with a compare-and-swap that is
// immune to the ABA problem.
//
// A value-only CAS cannot tell "nothing happened" apart from "the value
// changed away and came back". The cell closes that hole by pairing the
// value with a version that advances by exactly one on every successful
// mutation: two loads that return the same (value, version) pair observed
// the same logical state. Packing both fields into one word is the point of
// the design, not a convenience; it is what lets a single atomic operation
// observe value and version indivisibly. Kept as two separate atomics, a
// reader could pair a fresh value with a stale version and reproduce the
// exact hazard the version exists to prevent.
//
// The version is a 32-bit counter. After 2^32 successful mutations of one
// cell it wraps, which theoretically re-opens the ABA window if the value
// also coincidentally matches. Widening the counter would cost the
// single-word atomicity, so the limit is documented rather than handled.
package vcell

import "sync/atomic"

// Pair is a snapshot of a cell: the stored value and the version that was
// current when it was written.
type Pair struct {
	Value   uint32
	Version uint32
}

// Pack encodes p into a single word, version in the high 32 bits and value
// in the low 32.
func Pack(p Pair) uint64 {
	return uint64(p.Version)<<32 | uint64(p.Value)
}

// Unpack decodes a packed word back into a Pair.
func Unpack(w uint64) Pair {
	return Pair{
		Value:   uint32(w),
		Version: uint32(w >> 32),
	}
}

// Next returns the only pair a CompareExchange against p may legally
// install for value v: the same cell one version later.
func Next(p Pair, v uint32) Pair {
	return Pair{Value: v, Version: p.Version + 1}
}

// Cell holds one Pair in a single atomic word.
//
// The zero value holds (0, 0); use New to start from a different value.
// All mutation goes through the cell's methods; nothing else may write the
// packed word.
type Cell struct {
	packed atomic.Uint64
}

// New returns a cell holding (initial, 0).
func New(initial uint32) *Cell {
	c := &Cell{}
	c.packed.Store(Pack(Pair{Value: initial}))
	return c
}

// Load atomically reads the current pair.
func (c *Cell) Load() Pair {
	return Unpack(c.packed.Load())
}

// Store unconditionally replaces the value, advancing the version by one
// relative to the pair this call observed, and returns the pair it wrote.
//
// Store is read-then-write, not one atomic step: two goroutines storing
// concurrently can observe the same version and install duplicates,
// breaking monotonicity. It is meant for a single writer, or for writers
// serialized by other means; concurrent writers must use CompareExchange.
func (c *Cell) Store(value uint32) Pair {
	next := Next(c.Load(), value)
	c.packed.Store(Pack(next))
	return next
}

// CompareExchange atomically replaces the cell's pair with desired if it
// still holds exactly expected, in one CAS of the packed word. On success
// it returns (desired, true). On failure it returns the actual current pair
// and false; Classify tells the caller why it lost.
//
// The cell never retries a lost exchange internally. Whether to retry, give
// up, or report is entirely the caller's policy.
func (c *Cell) CompareExchange(expected, desired Pair) (Pair, bool) {
	e, d := Pack(expected), Pack(desired)
	for {
		if c.packed.CompareAndSwap(e, d) {
			return desired, true
		}
		// The CAS itself does not report the conflicting word, so read it
		// back. If the word moved back to expected between the failed CAS
		// and the load, retry the CAS rather than report a failure that
		// would masquerade as an invariant breach.
		if actual := c.packed.Load(); actual != e {
			return Unpack(actual), false
		}
	}
}
