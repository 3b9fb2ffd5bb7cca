package core

import (
	"sync/atomic"
	"time"
)

// SoftClock is a Clock driven by software rather than a hardware counter.
// Platform code or a simulator moves it forward with Set or Advance.
type SoftClock struct {
	ticks atomic.Uint64
}

// Now returns the current time
func (c *SoftClock) Now() Instant {
	return Instant(c.ticks.Load())
}

// Set sets the current time (for testing/hardware integration)
func (c *SoftClock) Set(t Instant) {
	c.ticks.Store(uint64(t))
}

// Advance moves the clock forward by d, truncated to whole microseconds,
// and returns the new time
func (c *SoftClock) Advance(d time.Duration) Instant {
	if d <= 0 {
		return c.Now()
	}
	return Instant(c.ticks.Add(uint64(d / time.Microsecond)))
}

// Duration converts a microsecond count to a time.Duration
func (i Instant) Duration() time.Duration {
	return time.Duration(i) * time.Microsecond
}
