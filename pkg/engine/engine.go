package engine

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/joripage/lob-engine/pkg/logging"
	"github.com/joripage/lob-engine/pkg/orderbook"
)

// FillCallback receives every execution of an incoming order.
type FillCallback func(orderID uint64, price float64, qty int64)

// Fill is the execution of an incoming order against one price level.
type Fill struct {
	OrderID uint64
	Price   float64
	Qty     int64
	Makers  []orderbook.MatchResult
}

// Result describes what HandleOrder did with an order.
type Result struct {
	Fills  []Fill
	Rested int64
}

// Filled returns the executed quantity across all fills.
func (r Result) Filled() int64 {
	var total int64
	for _, f := range r.Fills {
		total += f.Qty
	}
	return total
}

// MatchingEngine matches incoming orders against the best opposing price of
// the book it owns. It is the only component that invokes the fill callback.
type MatchingEngine struct {
	book   *orderbook.OrderBook
	fillCb atomic.Pointer[FillCallback]
	opts   Options
	logger *logging.Logger
}

func NewMatchingEngine(symbol string, opts ...Option) *MatchingEngine {
	o := DefaultEngineOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &MatchingEngine{
		book:   orderbook.NewOrderBook(symbol),
		opts:   *o,
		logger: o.Logger.Named("engine").With(zap.String("symbol", symbol)),
	}
}

// Book exposes the engine's order book for queries.
func (e *MatchingEngine) Book() *orderbook.OrderBook {
	return e.book
}

// SetFillCallback replaces the fill callback; nil disables reporting.
func (e *MatchingEngine) SetFillCallback(cb FillCallback) {
	if cb == nil {
		e.fillCb.Store(nil)
		return
	}
	e.fillCb.Store(&cb)
}

// NewOrder builds an order stamped with a fresh id and the current time.
func (e *MatchingEngine) NewOrder(side orderbook.Side, price float64, qty int64) orderbook.Order {
	return orderbook.Order{
		ID:        e.opts.IDs.Next(),
		Price:     price,
		Qty:       qty,
		Side:      side,
		Timestamp: e.opts.Clock.Now(),
	}
}

// Submit is NewOrder followed by HandleOrder.
func (e *MatchingEngine) Submit(side orderbook.Side, price float64, qty int64) (orderbook.Order, Result, error) {
	order := e.NewOrder(side, price, qty)
	res, err := e.HandleOrder(order)
	return order, res, err
}

// HandleOrder matches order against the opposite side of the book and rests
// whatever is left. A buy crosses while best ask <= price, a sell while best
// bid >= price. Each level contributes min(remaining, resting) and produces
// one fill at the level price. Matching stops after MaxLevels levels even if
// the remainder still crosses.
func (e *MatchingEngine) HandleOrder(order orderbook.Order) (Result, error) {
	if err := order.Validate(); err != nil {
		return Result{}, err
	}
	if order.Timestamp == 0 {
		order.Timestamp = e.opts.Clock.Now()
	}

	var res Result
	err := e.book.Update(func(tx *orderbook.Txn) error {
		if tx.Exists(order.ID) {
			return fmt.Errorf("handle %d: %w", order.ID, orderbook.ErrDuplicateOrder)
		}
		// a remainder is never larger than the order, so if the full order
		// can rest any remainder can too
		if err := tx.CanRest(order); err != nil {
			return fmt.Errorf("handle %d: %w", order.ID, err)
		}

		counterSide := order.Side.Opposite()
		remaining := order.Qty
		for levels := 0; remaining > 0; levels++ {
			if e.opts.MaxLevels > 0 && levels >= e.opts.MaxLevels {
				break
			}
			bestPrice, ok := tx.BestPrice(counterSide)
			if !ok || !order.Crosses(bestPrice) {
				break
			}

			makers := tx.Consume(order.ID, counterSide, bestPrice, remaining)
			var qty int64
			for _, m := range makers {
				qty += m.Qty
			}
			if qty == 0 {
				break
			}
			remaining -= qty
			res.Fills = append(res.Fills, Fill{
				OrderID: order.ID,
				Price:   bestPrice,
				Qty:     qty,
				Makers:  makers,
			})
		}

		if remaining > 0 {
			rest := order
			rest.Qty = remaining
			if err := tx.Rest(rest); err != nil {
				return err
			}
			res.Rested = remaining
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	// the book lock is released; callbacks may query the book
	if cb := e.fillCb.Load(); cb != nil {
		for _, f := range res.Fills {
			(*cb)(f.OrderID, f.Price, f.Qty)
		}
	}

	if e.logger.Enabled(logging.DEBUG) {
		for _, f := range res.Fills {
			e.logger.Debug("order filled",
				zap.Uint64("order_id", f.OrderID),
				zap.String("side", string(order.Side)),
				zap.Float64("price", f.Price),
				zap.Int64("qty", f.Qty),
				zap.Int("makers", len(f.Makers)),
			)
		}
		if res.Rested > 0 {
			e.logger.Debug("order rested",
				zap.Uint64("order_id", order.ID),
				zap.String("side", string(order.Side)),
				zap.Float64("price", order.Price),
				zap.Int64("qty", res.Rested),
			)
		}
	}

	return res, nil
}

func (e *MatchingEngine) CancelOrder(orderID uint64) error {
	if err := e.book.CancelOrder(orderID); err != nil {
		e.logger.Debug("cancel rejected", zap.Uint64("order_id", orderID), zap.Error(err))
		return err
	}
	return nil
}

func (e *MatchingEngine) ModifyOrder(orderID uint64, newQty int64) error {
	if err := e.book.ModifyOrder(orderID, newQty); err != nil {
		e.logger.Debug("modify rejected", zap.Uint64("order_id", orderID), zap.Error(err))
		return err
	}
	return nil
}
