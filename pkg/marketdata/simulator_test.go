package marketdata

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joripage/lob-engine/pkg/clock"
	"github.com/joripage/lob-engine/pkg/orderbook"
)

func TestSimulator_Deterministic(t *testing.T) {
	cfg := SimulatorConfig{MidPrice: 100, TickSize: 0.5, MaxQty: 10, Seed: 3}
	a := NewSimulator(cfg, clock.NewManual(1))
	b := NewSimulator(cfg, clock.NewManual(1))

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestSimulator_TicksAreWellFormed(t *testing.T) {
	s := NewSimulator(SimulatorConfig{MidPrice: 1, TickSize: 0.25, MaxQty: 5, Seed: 9}, clock.NewManual(0))

	for i := 0; i < 1000; i++ {
		u := s.Next()
		require.NoError(t, orderbook.Order{ID: 1, Price: u.Price, Qty: u.Qty, Side: u.Side}.Validate())
		assert.GreaterOrEqual(t, u.Price, 0.25)
		assert.LessOrEqual(t, u.Qty, int64(5))
		ticks := u.Price / 0.25
		assert.InDelta(t, math.Round(ticks), ticks, 1e-9, "price %v is on the tick grid", u.Price)
	}
}

func TestSimulator_RunPublishes(t *testing.T) {
	feed := NewFeed(nil)
	var c collector
	feed.Subscribe(c.add)
	feed.Start(context.Background())

	s := NewSimulator(SimulatorConfig{MidPrice: 100, Interval: time.Millisecond, Seed: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx, feed) }()

	require.Eventually(t, func() bool { return len(c.updates()) >= 5 }, 2*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	feed.Stop()
}

func TestSimulator_RunStopsWithFeed(t *testing.T) {
	feed := NewFeed(nil)
	feed.Start(context.Background())
	feed.Stop()

	s := NewSimulator(SimulatorConfig{MidPrice: 100, Interval: time.Millisecond}, nil)
	assert.NoError(t, s.Run(context.Background(), feed))
}
