// file: pkg/orderbook/orderbook.go

package orderbook

import (
	"fmt"
	"math"
	"sync"
)

// Level is an aggregated view of one price level.
type Level struct {
	Price  float64
	Qty    int64
	Orders int
}

// Depth lists price levels best first on each side.
type Depth struct {
	Bids []Level
	Asks []Level
}

// OrderBook holds resting liquidity aggregated per price level together with
// an id index of the resting orders. Both structures are guarded by one lock
// and are always mutated together.
type OrderBook struct {
	symbol string

	bids *ladder
	asks *ladder

	orders map[uint64]*Order

	mu sync.RWMutex
}

func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		bids:   newLadder(BUY),
		asks:   newLadder(SELL),
		orders: make(map[uint64]*Order),
	}
}

func (ob *OrderBook) Symbol() string {
	return ob.symbol
}

// AddOrder rests order in the book without matching it.
func (ob *OrderBook) AddOrder(order Order) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return ob.insert(order)
}

func (ob *OrderBook) CancelOrder(orderID uint64) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.orders[orderID]
	if !ok {
		return fmt.Errorf("cancel %d: %w", orderID, ErrOrderNotFound)
	}
	ob.remove(order)

	return nil
}

// ModifyOrder sets the open quantity of a resting order. A quantity of zero
// removes the order.
func (ob *OrderBook) ModifyOrder(orderID uint64, newQty int64) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.orders[orderID]
	if !ok {
		return fmt.Errorf("modify %d: %w", orderID, ErrOrderNotFound)
	}
	if newQty < 0 {
		return fmt.Errorf("modify %d: %w: qty %d", orderID, ErrInvalidOrder, newQty)
	}
	if newQty == 0 {
		ob.remove(order)
		return nil
	}

	l := ob.ladder(order.Side)
	delta := newQty - order.Qty
	if delta > 0 && l.volume(order.Price) > math.MaxInt64-delta {
		return fmt.Errorf("modify %d: %w: level volume overflow", orderID, ErrInvalidOrder)
	}
	l.adjust(order.Price, delta)
	order.Qty = newQty

	return nil
}

func (ob *OrderBook) BestBid() (float64, error) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	price, ok := ob.bids.best()
	if !ok {
		return 0, fmt.Errorf("best bid: %w", ErrNoLiquidity)
	}
	return price, nil
}

func (ob *OrderBook) BestAsk() (float64, error) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	price, ok := ob.asks.best()
	if !ok {
		return 0, fmt.Errorf("best ask: %w", ErrNoLiquidity)
	}
	return price, nil
}

// VolumeAtPrice returns the resting quantity at price on whichever side holds
// a level there, or 0.
func (ob *OrderBook) VolumeAtPrice(price float64) int64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	if v := ob.bids.volume(price); v > 0 {
		return v
	}
	return ob.asks.volume(price)
}

// Order returns a copy of the resting order with the given id.
func (ob *OrderBook) Order(orderID uint64) (Order, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	order, ok := ob.orders[orderID]
	if !ok {
		return Order{}, false
	}
	return *order, true
}

// Len returns the number of resting orders.
func (ob *OrderBook) Len() int {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	return len(ob.orders)
}

// Depth returns up to n levels per side; n <= 0 returns every level.
func (ob *OrderBook) Depth(n int) Depth {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	return Depth{
		Bids: ob.bids.depth(n),
		Asks: ob.asks.depth(n),
	}
}

// Update runs fn with exclusive access to the book. The Txn must not be
// retained after fn returns.
func (ob *OrderBook) Update(fn func(tx *Txn) error) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return fn(&Txn{ob: ob})
}

func (ob *OrderBook) ladder(side Side) *ladder {
	if side == BUY {
		return ob.bids
	}
	return ob.asks
}

// checkInsert reports why order could not rest, without changing the book.
func (ob *OrderBook) checkInsert(order Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	if _, exists := ob.orders[order.ID]; exists {
		return fmt.Errorf("add %d: %w", order.ID, ErrDuplicateOrder)
	}
	if ob.ladder(order.Side).volume(order.Price) > math.MaxInt64-order.Qty {
		return fmt.Errorf("add %d: %w: level volume overflow", order.ID, ErrInvalidOrder)
	}
	return nil
}

func (ob *OrderBook) insert(order Order) error {
	if err := ob.checkInsert(order); err != nil {
		return err
	}

	o := order
	ob.orders[o.ID] = &o
	ob.ladder(o.Side).add(&o)

	return nil
}

func (ob *OrderBook) remove(order *Order) {
	l := ob.ladder(order.Side)
	l.unlink(order.Price, order.ID)
	l.adjust(order.Price, -order.Qty)
	delete(ob.orders, order.ID)
}
