// Package clock provides nanosecond timestamps for orders.
package clock

import (
	"sync/atomic"
	"time"
)

type Clock interface {
	Now() int64
}

// Monotonic reports nanoseconds since the Unix epoch, measured from a fixed
// anchor with the runtime's monotonic clock so wall-clock steps never move it
// backwards.
type Monotonic struct {
	anchor time.Time
	last   atomic.Int64
}

func NewMonotonic() *Monotonic {
	return &Monotonic{anchor: time.Now()}
}

func (c *Monotonic) Now() int64 {
	now := c.anchor.UnixNano() + int64(time.Since(c.anchor))
	for {
		last := c.last.Load()
		if now <= last {
			return last
		}
		if c.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

// Manual is a clock that only moves when told to.
type Manual struct {
	now atomic.Int64
}

func NewManual(start int64) *Manual {
	m := &Manual{}
	m.now.Store(start)
	return m
}

func (m *Manual) Now() int64 {
	return m.now.Load()
}

func (m *Manual) Advance(d time.Duration) int64 {
	return m.now.Add(int64(d))
}

func (m *Manual) Set(ns int64) {
	m.now.Store(ns)
}
