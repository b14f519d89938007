package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually driven time source. Services, stores and token
// services built from one Clock observe the same instant, so a test can step
// past a token expiry or check that updatedAt moved.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at start in UTC, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{now: start.UTC()}
}

// Now reports the clock's instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NowFunc returns Now for constructor injection. A nil clock yields time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set jumps to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t.UTC()
	c.mu.Unlock()
}

// Advance steps the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Current is Now under a name that reads better in assertions.
func (c *Clock) Current() time.Time {
	return c.Now()
}
