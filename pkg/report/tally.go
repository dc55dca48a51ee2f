package report

import (
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// Tally accumulates fill totals.
type Tally struct {
	count atomic.Int64
	qty   atomic.Int64

	mu       sync.Mutex
	notional decimal.Decimal
}

func (t *Tally) OnFill(_ uint64, price float64, qty int64) {
	t.count.Add(1)
	t.qty.Add(qty)

	n := Notional(price, qty)
	t.mu.Lock()
	t.notional = t.notional.Add(n)
	t.mu.Unlock()
}

func (t *Tally) Count() int64 {
	return t.count.Load()
}

func (t *Tally) Qty() int64 {
	return t.qty.Load()
}

func (t *Tally) Notional() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notional
}
