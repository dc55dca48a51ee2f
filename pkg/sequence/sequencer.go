package sequence

import "sync/atomic"

// Sequencer hands out strictly increasing ids. It is safe for concurrent use.
type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer whose first Next returns start+1.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued id.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}

func (s *Sequencer) Reset(v uint64) {
	s.next.Store(v)
}
