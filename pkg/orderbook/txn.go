package orderbook

// Txn is exclusive access to an OrderBook for the duration of Update.
type Txn struct {
	ob *OrderBook
}

// Exists reports whether an order with the id is resting.
func (tx *Txn) Exists(orderID uint64) bool {
	_, ok := tx.ob.orders[orderID]
	return ok
}

// BestPrice returns the best price on side; ok is false when the side is empty.
func (tx *Txn) BestPrice(side Side) (price float64, ok bool) {
	return tx.ob.ladder(side).best()
}

// Volume returns the resting quantity at price on side.
func (tx *Txn) Volume(side Side, price float64) int64 {
	return tx.ob.ladder(side).volume(price)
}

// Consume takes up to qty from the level at price on side on behalf of the
// incoming order takerID. Resting orders at the level are depleted in the
// order they joined it; fully filled orders leave the index and an emptied
// level leaves the ladder. One MatchResult is returned per resting order hit.
func (tx *Txn) Consume(takerID uint64, side Side, price float64, qty int64) []MatchResult {
	l := tx.ob.ladder(side)
	lvl, ok := l.levels[price]
	if !ok || qty <= 0 {
		return nil
	}

	var results []MatchResult
	for qty > 0 && lvl.orders.Len() > 0 {
		resting := tx.ob.orders[lvl.orders.Front()]

		matchQty := min(qty, resting.Qty)
		resting.Qty -= matchQty
		lvl.volume -= matchQty
		qty -= matchQty

		results = append(results, MatchResult{
			OrderID:        resting.ID,
			CounterOrderID: takerID,
			Price:          price,
			Qty:            matchQty,
			Side:           side,
		})

		if resting.Qty == 0 {
			lvl.orders.PopFront()
			delete(tx.ob.orders, resting.ID)
		}
	}

	if lvl.volume <= 0 {
		l.drop(price)
	}

	return results
}

// CanRest returns the error Rest would return for order, leaving the book
// untouched.
func (tx *Txn) CanRest(order Order) error {
	return tx.ob.checkInsert(order)
}

// Rest inserts order into the book.
func (tx *Txn) Rest(order Order) error {
	return tx.ob.insert(order)
}
