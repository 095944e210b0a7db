package clock

import (
	"time"

	"solar-system/internal/config"
)

// pausedFPS caps the loop while the simulation is frozen
const pausedFPS = 30

// spinWindow is the tail of each frame spent busy-waiting
const spinWindow = 200 * time.Microsecond

// FPSLimiter paces the render loop to config.GetFPSLimit
type FPSLimiter struct {
	next time.Time
}

// NewFPSLimiter creates a limiter with no frame scheduled yet
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// Wait blocks until the next frame is due. Sleeps for most of the gap
// and spins for the last spinWindow.
func (f *FPSLimiter) Wait(paused bool) {
	target := f.Interval(paused)
	if target == 0 {
		f.next = time.Time{}
		return
	}

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > spinWindow {
			time.Sleep(remaining - spinWindow)
		}
	}

	// resync after a hitch instead of rendering a burst of catch-up frames
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}

// Interval is the frame budget, 0 when unlimited
func (f *FPSLimiter) Interval(paused bool) time.Duration {
	limit := config.GetFPSLimit()
	if paused && (limit <= 0 || limit > pausedFPS) {
		limit = pausedFPS
	}
	if limit <= 0 {
		return 0
	}
	return time.Second / time.Duration(limit)
}
