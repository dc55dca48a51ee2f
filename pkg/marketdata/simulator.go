package marketdata

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/joripage/lob-engine/pkg/clock"
	"github.com/joripage/lob-engine/pkg/orderbook"
)

// SimulatorConfig drives a random walk of ticks around a mid price.
type SimulatorConfig struct {
	MidPrice float64
	TickSize float64
	MaxQty   int64
	Interval time.Duration
	Seed     int64
}

// Simulator produces synthetic ticks for a Feed.
type Simulator struct {
	cfg   SimulatorConfig
	rnd   *rand.Rand
	clock clock.Clock
	mid   float64
}

func NewSimulator(cfg SimulatorConfig, clk clock.Clock) *Simulator {
	if cfg.TickSize <= 0 {
		cfg.TickSize = 0.01
	}
	if cfg.MaxQty <= 0 {
		cfg.MaxQty = 1
	}
	if clk == nil {
		clk = clock.NewMonotonic()
	}
	return &Simulator{
		cfg:   cfg,
		rnd:   rand.New(rand.NewSource(cfg.Seed)),
		clock: clk,
		mid:   cfg.MidPrice,
	}
}

// Next returns the next tick. Prices random-walk around mid, mostly on the
// passive side so the book builds up, occasionally crossing.
func (s *Simulator) Next() Update {
	s.mid += float64(s.rnd.Intn(3)-1) * s.cfg.TickSize
	if s.mid < s.cfg.TickSize {
		s.mid = s.cfg.TickSize
	}

	// k ticks away from mid on the passive side; k < 0 crosses mid
	k := float64(s.rnd.Intn(10) - 2)
	side := orderbook.BUY
	offset := -k
	if s.rnd.Intn(2) == 0 {
		side = orderbook.SELL
		offset = k
	}

	price := s.roundToTick(s.mid + offset*s.cfg.TickSize)
	if price < s.cfg.TickSize {
		price = s.cfg.TickSize
	}

	return Update{
		Price:     price,
		Qty:       s.rnd.Int63n(s.cfg.MaxQty) + 1,
		Side:      side,
		Timestamp: s.clock.Now(),
	}
}

func (s *Simulator) roundToTick(p float64) float64 {
	return math.Round(p/s.cfg.TickSize) * s.cfg.TickSize
}

// Run publishes a tick every Interval until ctx is done or the feed stops.
func (s *Simulator) Run(ctx context.Context, feed *Feed) error {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := feed.Publish(s.Next()); err != nil {
				if errors.Is(err, ErrFeedStopped) {
					return nil
				}
				return err
			}
		}
	}
}
