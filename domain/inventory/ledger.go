package inventory

import "strand/spin"

// Ledger is the order log: a plain slice whose only guard is a spinlock.
// The slice itself is deliberately not concurrency-safe; the lock is what
// keeps concurrent appends from corrupting it.
type Ledger struct {
	mu     spin.Lock
	orders []*Order
}

// Append records an order.
func (l *Ledger) Append(o *Order) {
	l.mu.Lock()
	l.orders = append(l.orders, o)
	l.mu.Unlock()
}

// Len returns the number of recorded orders.
func (l *Ledger) Len() int {
	l.mu.Lock()
	n := len(l.orders)
	l.mu.Unlock()
	return n
}

// Snapshot returns a copy of the current order log.
func (l *Ledger) Snapshot() []*Order {
	l.mu.Lock()
	out := make([]*Order, len(l.orders))
	copy(out, l.orders)
	l.mu.Unlock()
	return out
}

// drain empties the ledger and returns what it held.
func (l *Ledger) drain() []*Order {
	l.mu.Lock()
	out := l.orders
	l.orders = nil
	l.mu.Unlock()
	return out
}
