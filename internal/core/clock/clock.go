// Package clock provides the watch heartbeat: a time source that core packages
// read instead of calling time.Now, and an arena of named logical timers that
// fire when the tick loop advances past their due time.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real returns the system time.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to. It is safe for concurrent use.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (manual *Manual) Now() time.Time {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.now
}

// Set moves the clock to an absolute time.
func (manual *Manual) Set(now time.Time) {
	manual.mu.Lock()
	manual.now = now
	manual.mu.Unlock()
}

// Add moves the clock forward by delta and returns the new time.
func (manual *Manual) Add(delta time.Duration) time.Time {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	manual.now = manual.now.Add(delta)
	return manual.now
}

var (
	_ Clock = Real{}
	_ Clock = (*Manual)(nil)
)
