package data

import "time"

// Clock is the timestamp source for repository writes. Production repos read
// the system clock; tests pin it so created_at and updated_at assertions
// stay exact.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FrozenClock reports a fixed instant until moved.
type FrozenClock struct {
	now time.Time
}

// NewFrozenClock pins the clock to t.
func NewFrozenClock(t time.Time) *FrozenClock {
	return &FrozenClock{now: t}
}

// Now returns the pinned instant.
func (c *FrozenClock) Now() time.Time {
	return c.now
}

// Set pins the clock to a new instant.
func (c *FrozenClock) Set(t time.Time) {
	c.now = t
}

// Advance moves the clock forward by d.
func (c *FrozenClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
