package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonic_NeverGoesBackwards(t *testing.T) {
	c := NewMonotonic()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prev := c.Now()
			for i := 0; i < 10_000; i++ {
				now := c.Now()
				if now < prev {
					t.Errorf("clock went backwards: %d < %d", now, prev)
					return
				}
				prev = now
			}
		}()
	}
	wg.Wait()
}

func TestMonotonic_CloseToWallClock(t *testing.T) {
	c := NewMonotonic()

	diff := time.Duration(c.Now() - time.Now().UnixNano())
	if diff < 0 {
		diff = -diff
	}
	assert.Less(t, diff, time.Second)
}

func TestManual(t *testing.T) {
	m := NewManual(100)

	assert.Equal(t, int64(100), m.Now())
	assert.Equal(t, int64(100+int64(time.Microsecond)), m.Advance(time.Microsecond))

	m.Set(5)
	assert.Equal(t, int64(5), m.Now())
}
