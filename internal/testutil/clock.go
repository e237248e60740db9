package testutil

import (
	"sync/atomic"
	"time"
)

// Clock is a manually advanced monotonic clock. Now can be passed wherever
// a func() time.Duration is expected.
type Clock struct {
	now atomic.Int64
}

// NewClock returns a clock reading start.
func NewClock(start time.Duration) *Clock {
	c := &Clock{}
	c.now.Store(int64(start))
	return c
}

// Now returns the current reading.
func (c *Clock) Now() time.Duration {
	return time.Duration(c.now.Load())
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.now.Add(int64(d))
}
