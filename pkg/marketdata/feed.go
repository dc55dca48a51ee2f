// Package marketdata buffers price/quantity ticks and hands them to
// subscribers on a background worker.
package marketdata

import (
	"context"
	"errors"
	"sync"

	"github.com/gammazero/deque"
	"go.uber.org/zap"

	"github.com/joripage/lob-engine/pkg/logging"
	"github.com/joripage/lob-engine/pkg/orderbook"
)

var ErrFeedStopped = errors.New("feed stopped")

type Update struct {
	Price     float64
	Qty       int64
	Side      orderbook.Side
	Timestamp int64
}

type UpdateCallback func(Update)

type Feed struct {
	mu      sync.Mutex
	pending deque.Deque[Update]
	subs    []UpdateCallback
	running bool
	stopped bool // Publish refused
	quitted bool // quit closed

	wake chan struct{}
	quit chan struct{}
	done chan struct{}

	logger *logging.Logger
}

func NewFeed(logger *logging.Logger) *Feed {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Feed{
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger.Named("feed"),
	}
}

// Subscribe registers fn for every update dispatched after the call.
func (f *Feed) Subscribe(fn UpdateCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.subs = append(f.subs, fn)
}

// Publish queues u for dispatch. It never blocks on subscribers.
func (f *Feed) Publish(u Update) error {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return ErrFeedStopped
	}
	f.pending.PushBack(u)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of queued, undispatched updates.
func (f *Feed) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pending.Len()
}

// Start launches the dispatch worker. It runs until Stop is called or ctx is
// done; either way queued updates are dispatched before it exits.
func (f *Feed) Start(ctx context.Context) {
	f.mu.Lock()
	if f.running || f.stopped {
		f.mu.Unlock()
		return
	}
	f.running = true
	f.mu.Unlock()

	go f.run(ctx)
}

// Stop refuses further updates, waits for the worker to drain the queue and
// returns. It is safe to call more than once, also after ctx has ended the
// worker.
func (f *Feed) Stop() {
	f.mu.Lock()
	f.stopped = true
	running := f.running
	closeQuit := !f.quitted
	f.quitted = true
	f.mu.Unlock()

	if closeQuit {
		close(f.quit)
	}
	if running {
		<-f.done
	}
}

func (f *Feed) run(ctx context.Context) {
	defer close(f.done)
	f.logger.Info("feed started")

	for {
		f.drain()

		select {
		case <-f.wake:
		case <-f.quit:
			f.drain()
			f.logger.Info("feed stopped")
			return
		case <-ctx.Done():
			f.mu.Lock()
			f.stopped = true
			f.mu.Unlock()
			f.drain()
			f.logger.Info("feed stopped", zap.Error(ctx.Err()))
			return
		}
	}
}

func (f *Feed) drain() {
	for {
		f.mu.Lock()
		if f.pending.Len() == 0 {
			f.mu.Unlock()
			return
		}
		u := f.pending.PopFront()
		subs := f.subs
		f.mu.Unlock()

		for _, fn := range subs {
			fn(u)
		}
	}
}
