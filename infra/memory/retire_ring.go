package memory

import "sync/atomic"

// RetireRing is an SPSC ring buffer carrying retired objects from the
// drain step (producer) to the reclaimer (consumer).
type RetireRing struct {
	// head/tail on separate cache lines to avoid false sharing
	head  uint64
	_pad1 [56]byte
	tail  uint64
	_pad2 [56]byte

	buf  []any
	mask uint64
}

func NewRetireRing(size uint64) *RetireRing {
	if size == 0 || size&(size-1) != 0 {
		panic("RetireRing size must be a power of two")
	}
	return &RetireRing{
		buf:  make([]any, size),
		mask: size - 1,
	}
}

// Enqueue pushes a retired object. Single producer only.
// Returns false if the ring is full.
func (r *RetireRing) Enqueue(v any) bool {
	h := atomic.LoadUint64(&r.head)
	t := atomic.LoadUint64(&r.tail)
	if h-t == uint64(len(r.buf)) {
		return false
	}
	r.buf[h&r.mask] = v
	atomic.StoreUint64(&r.head, h+1)
	return true
}

// Dequeue pops the oldest retired object. Single consumer only.
// Returns nil if the ring is empty.
func (r *RetireRing) Dequeue() any {
	t := atomic.LoadUint64(&r.tail)
	h := atomic.LoadUint64(&r.head)
	if t == h {
		return nil
	}
	v := r.buf[t&r.mask]
	r.buf[t&r.mask] = nil
	atomic.StoreUint64(&r.tail, t+1)
	return v
}

// Len returns the number of objects currently in the ring.
func (r *RetireRing) Len() int {
	h := atomic.LoadUint64(&r.head)
	t := atomic.LoadUint64(&r.tail)
	return int(h - t)
}

// Cap returns the ring's capacity.
func (r *RetireRing) Cap() int {
	return len(r.buf)
}
