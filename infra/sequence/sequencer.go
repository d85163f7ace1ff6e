package sequence

import "sync/atomic"

// Sequencer hands out strictly monotonic sequence IDs for ledger orders.
type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer starting from a given value.
// A fresh run starts from 0.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence ID.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}

// Reset sets the sequencer back to a specific value.
// Only valid between runs, when no goroutine is calling Next.
func (s *Sequencer) Reset(v uint64) {
	s.next.Store(v)
}
