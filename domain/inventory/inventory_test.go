package inventory

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strand/infra/memory"
	"strand/infra/sequence"
)

func newTestService(stock uint32) *Service {
	pool := memory.NewPool(func() *Order { return &Order{} })
	ring := memory.NewRetireRing(1 << 10)
	return NewService(stock, pool, ring, sequence.New(0))
}

func TestDeductBasic(t *testing.T) {
	svc := newTestService(10)

	r, err := svc.Deduct(1, 1001, 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), r.Remaining)
	assert.Equal(t, uint64(1), r.SeqID)

	p := svc.Stock()
	assert.Equal(t, uint32(7), p.Value)
	assert.Equal(t, uint32(1), p.Version)
	assert.Equal(t, 1, svc.Stats().Orders)
}

func TestDeductOutOfStock(t *testing.T) {
	svc := newTestService(2)

	_, err := svc.Deduct(1, 1001, 3)
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 0, svc.Stats().Orders, "a refused deduction must not log an order")

	_, err = svc.Deduct(1, 1001, 2)
	require.NoError(t, err)
	_, err = svc.Deduct(2, 1001, 1)
	require.ErrorIs(t, err, ErrOutOfStock)
}

// TestSelloutConservation is the flash-sale property: with more buyers than
// stock, exactly stock-many deductions succeed, the ledger holds exactly
// that many orders, and the stock version counts every successful mutation.
func TestSelloutConservation(t *testing.T) {
	const (
		stock  = 10
		buyers = 200
	)

	svc := newTestService(stock)

	var (
		successes, failures int64
		mu                  sync.Mutex
		wg                  sync.WaitGroup
	)
	for b := 0; b < buyers; b++ {
		wg.Add(1)
		go func(user uint32) {
			defer wg.Done()
			_, err := svc.Deduct(user, 1001, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, ErrOutOfStock) {
				failures++
			}
		}(uint32(b + 1))
	}
	wg.Wait()

	require.EqualValues(t, stock, successes)
	require.EqualValues(t, buyers-stock, failures)

	st := svc.Stats()
	assert.Equal(t, uint32(0), st.Remaining, "stock must sell out")
	assert.Equal(t, uint32(stock), st.Version, "one version step per deduction")
	assert.Equal(t, stock, st.Orders)

	// sequence IDs are unique and dense
	seen := map[uint64]bool{}
	for _, o := range svc.Orders() {
		assert.False(t, seen[o.SeqID], "duplicate seq ID %d", o.SeqID)
		seen[o.SeqID] = true
		assert.LessOrEqual(t, o.SeqID, uint64(stock))
	}
}

func TestRetireAndReclaim(t *testing.T) {
	svc := newTestService(5)
	for i := 0; i < 5; i++ {
		_, err := svc.Deduct(uint32(i+1), 1001, 1)
		require.NoError(t, err)
	}

	retired := svc.Retire()
	assert.Equal(t, 5, retired)
	assert.Equal(t, 0, svc.Stats().Orders, "ledger must be empty after Retire")

	reclaimed := svc.Reclaim()
	assert.Equal(t, 5, reclaimed)
	assert.Equal(t, 0, svc.Reclaim(), "second reclaim finds nothing")
}
