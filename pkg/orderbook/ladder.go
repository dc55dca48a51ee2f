package orderbook

import (
	"github.com/gammazero/deque"
	"github.com/google/btree"
)

const priceLevelsBTreeDegree = 32

type priceLevel struct {
	price  float64
	volume int64
	orders deque.Deque[uint64] // resting ids, insertion order
}

// ladder is one side of the book. Prices are kept in a btree ordered best
// first, so Min is always the best price.
type ladder struct {
	side   Side
	prices *btree.BTreeG[float64]
	levels map[float64]*priceLevel
}

func newLadder(side Side) *ladder {
	less := func(i, j float64) bool { return i < j } // asks: lowest first
	if side == BUY {
		less = func(i, j float64) bool { return i > j } // bids: highest first
	}

	return &ladder{
		side:   side,
		prices: btree.NewG(priceLevelsBTreeDegree, less),
		levels: make(map[float64]*priceLevel),
	}
}

func (l *ladder) best() (float64, bool) {
	return l.prices.Min()
}

func (l *ladder) volume(price float64) int64 {
	if lvl, ok := l.levels[price]; ok {
		return lvl.volume
	}
	return 0
}

func (l *ladder) add(order *Order) {
	lvl, ok := l.levels[order.Price]
	if !ok {
		lvl = &priceLevel{price: order.Price}
		l.levels[order.Price] = lvl
		l.prices.ReplaceOrInsert(order.Price)
	}
	lvl.volume += order.Qty
	lvl.orders.PushBack(order.ID)
}

// adjust applies delta to the level at price and drops the level once it is empty.
func (l *ladder) adjust(price float64, delta int64) {
	lvl, ok := l.levels[price]
	if !ok {
		return
	}
	lvl.volume += delta
	if lvl.volume <= 0 {
		l.drop(price)
	}
}

func (l *ladder) unlink(price float64, id uint64) {
	lvl, ok := l.levels[price]
	if !ok {
		return
	}
	if i := lvl.orders.Index(func(v uint64) bool { return v == id }); i >= 0 {
		lvl.orders.Remove(i)
	}
}

func (l *ladder) drop(price float64) {
	delete(l.levels, price)
	l.prices.Delete(price)
}

func (l *ladder) depth(n int) []Level {
	size := len(l.levels)
	if n > 0 && n < size {
		size = n
	}
	out := make([]Level, 0, size)
	l.prices.Ascend(func(price float64) bool {
		if n > 0 && len(out) == n {
			return false
		}
		lvl := l.levels[price]
		out = append(out, Level{Price: price, Qty: lvl.volume, Orders: lvl.orders.Len()})
		return true
	})
	return out
}
