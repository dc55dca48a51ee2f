package orderbook

// MatchResult records quantity taken from one resting order.
type MatchResult struct {
	OrderID        uint64 // resting order
	CounterOrderID uint64 // incoming order
	Price          float64
	Qty            int64
	Side           Side // side of the resting order
}
