package engine

import (
	"github.com/joripage/lob-engine/pkg/clock"
	"github.com/joripage/lob-engine/pkg/logging"
	"github.com/joripage/lob-engine/pkg/sequence"
)

// IDGenerator issues process-unique order ids.
type IDGenerator interface {
	Next() uint64
}

// Options represents configuration options for the MatchingEngine.
type Options struct {
	// MaxLevels bounds how many opposing price levels one incoming order may
	// consume. 1 matches only against the best level and rests any remainder;
	// 0 keeps walking while the order still crosses.
	MaxLevels int
	IDs       IDGenerator
	Clock     clock.Clock
	Logger    *logging.Logger
}

type Option func(*Options)

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		MaxLevels: 1,
		IDs:       sequence.New(0),
		Clock:     clock.NewMonotonic(),
		Logger:    logging.NewNop(),
	}
}

func WithMaxLevels(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.MaxLevels = n
		}
	}
}

func WithIDGenerator(ids IDGenerator) Option {
	return func(o *Options) {
		if ids != nil {
			o.IDs = ids
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *Options) {
		if c != nil {
			o.Clock = c
		}
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
