package orderbook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelOrder(t *testing.T) {
	ob := NewOrderBook("test")
	require.NoError(t, ob.AddOrder(Order{ID: 1, Side: BUY, Price: 100, Qty: 10}))

	require.NoError(t, ob.CancelOrder(1))

	_, ok := ob.Order(1)
	assert.False(t, ok, "order should be removed from the index")
	assert.Equal(t, int64(0), ob.VolumeAtPrice(100))
	_, err := ob.BestBid()
	assert.ErrorIs(t, err, ErrNoLiquidity)
}

func TestCancelOrder_RoundTrip(t *testing.T) {
	ob := NewOrderBook("test")
	require.NoError(t, ob.AddOrder(Order{ID: 1, Side: SELL, Price: 101, Qty: 7}))
	before := ob.VolumeAtPrice(101)

	require.NoError(t, ob.AddOrder(Order{ID: 2, Side: SELL, Price: 101, Qty: 30}))
	require.NoError(t, ob.CancelOrder(2))

	assert.Equal(t, before, ob.VolumeAtPrice(101))
	assert.Equal(t, 1, ob.Len())
}

func TestCancelOrder_NotFound(t *testing.T) {
	ob := NewOrderBook("test")
	require.NoError(t, ob.AddOrder(Order{ID: 1, Side: BUY, Price: 99, Qty: 5}))
	require.NoError(t, ob.AddOrder(Order{ID: 2, Side: SELL, Price: 101, Qty: 6}))
	before := ob.Depth(0)

	err := ob.CancelOrder(42)

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, before, ob.Depth(0))
}

func TestModifyOrder_DecreaseQty(t *testing.T) {
	ob := NewOrderBook("test")
	require.NoError(t, ob.AddOrder(Order{ID: 1, Side: BUY, Price: 100, Qty: 10}))
	require.NoError(t, ob.AddOrder(Order{ID: 2, Side: BUY, Price: 100, Qty: 4}))

	require.NoError(t, ob.ModifyOrder(1, 5))

	modified, ok := ob.Order(1)
	require.True(t, ok)
	assert.Equal(t, int64(5), modified.Qty)
	assert.Equal(t, 100.0, modified.Price)
	assert.Equal(t, int64(9), ob.VolumeAtPrice(100))
}

func TestModifyOrder_IncreaseQty(t *testing.T) {
	ob := NewOrderBook("test")
	require.NoError(t, ob.AddOrder(Order{ID: 1, Side: BUY, Price: 100, Qty: 100}))

	require.NoError(t, ob.ModifyOrder(1, 150))

	modified, _ := ob.Order(1)
	assert.Equal(t, int64(150), modified.Qty)
	assert.Equal(t, int64(150), ob.VolumeAtPrice(100))
}

func TestModifyOrder_ZeroRemovesOrder(t *testing.T) {
	ob := NewOrderBook("test")
	require.NoError(t, ob.AddOrder(Order{ID: 1, Side: SELL, Price: 102, Qty: 10}))

	require.NoError(t, ob.ModifyOrder(1, 0))

	_, ok := ob.Order(1)
	assert.False(t, ok)
	assert.Equal(t, int64(0), ob.VolumeAtPrice(102))
	assert.Empty(t, ob.Depth(0).Asks)
	assert.ErrorIs(t, ob.CancelOrder(1), ErrOrderNotFound)
}

func TestModifyOrder_Errors(t *testing.T) {
	ob := NewOrderBook("test")
	require.NoError(t, ob.AddOrder(Order{ID: 1, Side: SELL, Price: 102, Qty: 10}))

	assert.ErrorIs(t, ob.ModifyOrder(9, 5), ErrOrderNotFound)
	assert.ErrorIs(t, ob.ModifyOrder(1, -1), ErrInvalidOrder)
	assert.Equal(t, int64(10), ob.VolumeAtPrice(102))
}

func TestModifyOrder_LevelVolumeOverflow(t *testing.T) {
	ob := NewOrderBook("test")
	require.NoError(t, ob.AddOrder(Order{ID: 1, Side: BUY, Price: 1, Qty: math.MaxInt64 - 10}))
	require.NoError(t, ob.AddOrder(Order{ID: 2, Side: BUY, Price: 1, Qty: 5}))

	assert.ErrorIs(t, ob.ModifyOrder(2, 20), ErrInvalidOrder)

	o, _ := ob.Order(2)
	assert.Equal(t, int64(5), o.Qty)
	assert.Equal(t, int64(math.MaxInt64-5), ob.VolumeAtPrice(1))

	require.NoError(t, ob.ModifyOrder(2, 10), "fits exactly")
	assert.Equal(t, int64(math.MaxInt64), ob.VolumeAtPrice(1))
}

func TestModifyOrder_DeltaProperty(t *testing.T) {
	cases := []struct {
		name   string
		oldQty int64
		newQty int64
	}{
		{"grow", 10, 25},
		{"shrink", 10, 3},
		{"same", 10, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ob := NewOrderBook("test")
			require.NoError(t, ob.AddOrder(Order{ID: 1, Side: BUY, Price: 50, Qty: 40}))
			require.NoError(t, ob.AddOrder(Order{ID: 2, Side: BUY, Price: 50, Qty: tc.oldQty}))
			before := ob.VolumeAtPrice(50)

			require.NoError(t, ob.ModifyOrder(2, tc.newQty))

			assert.Equal(t, before+tc.newQty-tc.oldQty, ob.VolumeAtPrice(50))
		})
	}
}
