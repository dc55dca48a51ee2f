package report

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/joripage/lob-engine/pkg/clock"
	"github.com/joripage/lob-engine/pkg/logging"
)

var ErrSinkClosed = errors.New("sink closed")

// AsyncConfig tunes the queue and retry policy of the network sinks.
type AsyncConfig struct {
	Symbol      string
	BufferSize  int
	MaxRetries  uint64
	MaxInterval time.Duration
}

func (c *AsyncConfig) setDefaults() {
	if c.BufferSize <= 0 {
		c.BufferSize = 1024
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = time.Second
	}
}

// asyncSink decouples fill delivery from the matching path: OnFill only
// enqueues, a worker sends with retries. When the queue is full the fill is
// dropped and counted.
type asyncSink struct {
	cfg    AsyncConfig
	send   func(ctx context.Context, f Fill) error
	clock  clock.Clock
	logger *logging.Logger

	queue   chan Fill
	closeMu sync.RWMutex
	closed  bool // no longer accepting fills
	shut    bool // Close was called
	done    chan struct{}

	sent    atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

func newAsyncSink(cfg AsyncConfig, clk clock.Clock, logger *logging.Logger, send func(context.Context, Fill) error) *asyncSink {
	cfg.setDefaults()
	if clk == nil {
		clk = clock.NewMonotonic()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &asyncSink{
		cfg:    cfg,
		send:   send,
		clock:  clk,
		logger: logger,
		queue:  make(chan Fill, cfg.BufferSize),
		done:   make(chan struct{}),
	}
}

func (s *asyncSink) OnFill(orderID uint64, price float64, qty int64) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}

	select {
	case s.queue <- NewFill(s.cfg.Symbol, orderID, price, qty, s.clock.Now()):
	default:
		s.dropped.Add(1)
		s.logger.Warn("fill queue full, dropping", zap.Uint64("order_id", orderID))
	}
}

// Run delivers queued fills until Close is called or ctx is done. When ctx
// ends first the sink stops accepting fills and whatever is still queued is
// counted as dropped.
func (s *asyncSink) Run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case f, ok := <-s.queue:
			if !ok {
				return
			}
			s.deliver(ctx, f)
		case <-ctx.Done():
			s.abandon(ctx.Err())
			return
		}
	}
}

func (s *asyncSink) abandon(reason error) {
	s.closeMu.Lock()
	s.closed = true
	s.closeMu.Unlock()

	var n int64
	for {
		select {
		case _, ok := <-s.queue:
			if !ok {
				s.logAbandoned(n, reason)
				return
			}
			n++
			s.dropped.Add(1)
		default:
			s.logAbandoned(n, reason)
			return
		}
	}
}

func (s *asyncSink) logAbandoned(n int64, reason error) {
	if n > 0 {
		s.logger.Warn("sink stopped with queued fills", zap.Int64("dropped", n), zap.Error(reason))
	}
}

func (s *asyncSink) deliver(ctx context.Context, f Fill) {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = s.cfg.MaxInterval
	if b.InitialInterval > b.MaxInterval {
		b.InitialInterval = b.MaxInterval
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, s.cfg.MaxRetries), ctx)

	err := backoff.Retry(func() error {
		return s.send(ctx, f)
	}, policy)
	if err != nil {
		s.failed.Add(1)
		s.logger.Error("deliver fill", zap.Uint64("order_id", f.OrderID), zap.Error(err))
		return
	}
	s.sent.Add(1)
}

// Close stops accepting fills and waits for the queue to be delivered.
// Run must have been started.
func (s *asyncSink) Close() error {
	s.closeMu.Lock()
	if s.shut {
		s.closeMu.Unlock()
		return ErrSinkClosed
	}
	s.shut = true
	s.closed = true
	close(s.queue)
	s.closeMu.Unlock()

	<-s.done
	return nil
}

// Stats returns delivered, dropped and failed fill counts.
func (s *asyncSink) Stats() (sent, dropped, failed int64) {
	return s.sent.Load(), s.dropped.Load(), s.failed.Load()
}
