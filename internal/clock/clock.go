// Package clock provides the simulation time source and frame pacing.
package clock

import (
	"sync"
	"time"
)

// Clock reports simulation seconds since Start, excluding paused spans.
// The zero value is not usable; call New.
type Clock struct {
	mu       sync.Mutex
	now      func() time.Time
	start    time.Time
	pausedAt time.Time
	paused   time.Duration
	offset   float64
}

// New returns a clock that starts counting immediately
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource is New with an injectable time source
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{now: now, start: now()}
}

// Elapsed returns simulation time in seconds
func (c *Clock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	end := c.now()
	if !c.pausedAt.IsZero() {
		end = c.pausedAt
	}
	return c.offset + end.Sub(c.start).Seconds() - c.paused.Seconds()
}

// SetElapsed jumps the clock so that Elapsed reports t
func (c *Clock) SetElapsed(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.start = now
	c.paused = 0
	if !c.pausedAt.IsZero() {
		c.pausedAt = now
	}
	c.offset = t
}

// Paused reports whether time is frozen
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.pausedAt.IsZero()
}

// Toggle pauses a running clock or resumes a paused one
func (c *Clock) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if c.pausedAt.IsZero() {
		c.pausedAt = now
		return
	}
	c.paused += now.Sub(c.pausedAt)
	c.pausedAt = time.Time{}
}
