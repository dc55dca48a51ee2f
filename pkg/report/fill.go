// Package report turns engine fill callbacks into log lines, counters and
// messages on Redis or Kafka.
package report

import (
	"github.com/shopspring/decimal"
)

// Callback has the shape of the engine's fill callback.
type Callback = func(orderID uint64, price float64, qty int64)

// Fill is the serialized form of one execution.
type Fill struct {
	OrderID   uint64          `json:"order_id"`
	Symbol    string          `json:"symbol,omitempty"`
	Price     float64         `json:"price"`
	Qty       int64           `json:"qty"`
	Notional  decimal.Decimal `json:"notional"`
	Timestamp int64           `json:"ts"`
}

func NewFill(symbol string, orderID uint64, price float64, qty int64, ts int64) Fill {
	return Fill{
		OrderID:   orderID,
		Symbol:    symbol,
		Price:     price,
		Qty:       qty,
		Notional:  Notional(price, qty),
		Timestamp: ts,
	}
}

// Notional is price*qty computed in decimal so float noise does not leak into
// reports.
func Notional(price float64, qty int64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(qty))
}

// Fanout returns a callback invoking each non-nil callback in order.
func Fanout(cbs ...Callback) Callback {
	var live []Callback
	for _, cb := range cbs {
		if cb != nil {
			live = append(live, cb)
		}
	}
	return func(orderID uint64, price float64, qty int64) {
		for _, cb := range live {
			cb(orderID, price, qty)
		}
	}
}
