package inventory

import (
	"errors"
	"time"

	"strand/infra/memory"
	"strand/infra/sequence"
	"strand/vcell"
)

// ErrOutOfStock is returned by Deduct when the requested quantity exceeds
// what remains. It is an ordinary outcome, not a failure of the service.
var ErrOutOfStock = errors.New("inventory: out of stock")

// Receipt is what a buyer gets back from a successful deduction.
type Receipt struct {
	SeqID     uint64
	Remaining uint32
	Retries   int // CAS conflicts absorbed before winning
}

// Stats summarizes the state of the sale.
type Stats struct {
	Remaining uint32
	Version   uint32 // number of successful stock mutations
	Orders    int
}

// Service coordinates stock deduction and order logging.
//
// Stock is a vcell.Cell, so every deduction is one versioned CAS and a
// concurrent deduction of the "same" stock level is detected rather than
// silently merged. The ledger is spinlock-guarded. No coordination beyond
// those two primitives is used.
type Service struct {
	stock  *vcell.Cell
	ledger Ledger
	pool   *memory.Pool[Order]
	ring   *memory.RetireRing
	seq    *sequence.Sequencer
}

// NewService wires all dependencies.
func NewService(
	initialStock uint32,
	pool *memory.Pool[Order],
	ring *memory.RetireRing,
	seq *sequence.Sequencer,
) *Service {
	return &Service{
		stock: vcell.New(initialStock),
		pool:  pool,
		ring:  ring,
		seq:   seq,
	}
}

// Deduct tries to take qty units for one buyer.
//
// The deduction is a caller-side CAS loop over the stock cell: load the
// current pair, refuse if short, otherwise attempt the versioned exchange
// and retry on conflict. Retrying here is a policy of this workload, not of
// the cell. On success the order is sequenced and appended to the ledger.
func (s *Service) Deduct(userID, productID, qty uint32) (Receipt, error) {
	retries := 0
	for {
		cur := s.stock.Load()
		if cur.Value < qty {
			return Receipt{}, ErrOutOfStock
		}

		next, ok := s.stock.CompareExchange(cur, vcell.Next(cur, cur.Value-qty))
		if !ok {
			retries++
			continue
		}

		o := s.pool.Get()
		*o = Order{
			SeqID:     s.seq.Next(),
			UserID:    userID,
			ProductID: productID,
			Qty:       qty,
			At:        time.Now(),
		}
		s.ledger.Append(o)

		return Receipt{
			SeqID:     o.SeqID,
			Remaining: next.Value,
			Retries:   retries,
		}, nil
	}
}

// Stock returns the current stock pair.
func (s *Service) Stock() vcell.Pair {
	return s.stock.Load()
}

// Orders returns a copy of the order log.
func (s *Service) Orders() []*Order {
	return s.ledger.Snapshot()
}

// Stats reports remaining stock, the stock version, and the order count.
func (s *Service) Stats() Stats {
	p := s.stock.Load()
	return Stats{
		Remaining: p.Value,
		Version:   p.Version,
		Orders:    s.ledger.Len(),
	}
}

// Retire drains the ledger into the retire ring and reports how many
// orders were handed off. Call after the buyers have finished; Retire is
// the ring's single producer.
func (s *Service) Retire() int {
	drained := s.ledger.drain()
	n := 0
	for _, o := range drained {
		if !s.ring.Enqueue(o) {
			// ring full: recycle directly rather than drop the object
			s.pool.Put(o)
			continue
		}
		n++
	}
	return n
}

// Reclaim pumps retired orders from the ring back into the pool and
// reports how many it recycled. Reclaim is the ring's single consumer.
func (s *Service) Reclaim() int {
	n := 0
	for {
		v := s.ring.Dequeue()
		if v == nil {
			return n
		}
		s.pool.PutAny(v)
		n++
	}
}
