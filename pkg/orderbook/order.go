package orderbook

import (
	"fmt"
	"math"
)

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

// Opposite returns the side an order of s trades against.
func (s Side) Opposite() Side {
	if s == BUY {
		return SELL
	}
	return BUY
}

func (s Side) valid() bool {
	return s == BUY || s == SELL
}

// Order is a limit order. Qty is the open quantity and shrinks on partial fills.
type Order struct {
	ID        uint64
	Price     float64
	Qty       int64
	Side      Side
	Timestamp int64 // monotonic nanoseconds
}

// Crosses reports whether o is willing to trade at counterPrice.
func (o Order) Crosses(counterPrice float64) bool {
	if o.Side == BUY {
		return counterPrice <= o.Price
	}
	return counterPrice >= o.Price
}

// Validate checks that the order is well formed: a known side, a finite
// price and a positive quantity.
func (o Order) Validate() error {
	if !o.Side.valid() {
		return fmt.Errorf("%w: side %q", ErrInvalidOrder, o.Side)
	}
	if math.IsNaN(o.Price) || math.IsInf(o.Price, 0) {
		return fmt.Errorf("%w: price %v", ErrInvalidOrder, o.Price)
	}
	if o.Qty <= 0 {
		return fmt.Errorf("%w: qty %d", ErrInvalidOrder, o.Qty)
	}
	return nil
}
