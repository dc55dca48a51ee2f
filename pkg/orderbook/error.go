package orderbook

import "errors"

var (
	// ErrNoLiquidity means the queried side of the book is empty.
	ErrNoLiquidity    = errors.New("no liquidity")
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidOrder   = errors.New("invalid order")
	ErrDuplicateOrder = errors.New("duplicate order")
)
