package testutil

import (
	"sync"
	"time"
)

// Epoch is the default start time of a Clock.
var Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Clock is a controllable time source. Its Now method can be passed anywhere a
// func() time.Time is accepted.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewClock returns a Clock frozen at Epoch.
func NewClock() *Clock {
	return &Clock{now: Epoch}
}

// NewTickingClock returns a Clock that starts at Epoch and moves forward by
// step after every read, so successive reads are strictly ordered.
func NewTickingClock(step time.Duration) *Clock {
	return &Clock{now: Epoch, step: step}
}

// Now returns the current time, then applies the tick step if any.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
