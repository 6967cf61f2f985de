// Package stopwatch measures elapsed time from wall-clock deltas and records laps.
package stopwatch

import (
	"time"

	"wristsim/internal/core/model"
)

// Stopwatch accumulates elapsed time. Elapsed is computed as now minus the
// effective start while running, so it does not drift with tick jitter.
type Stopwatch struct {
	running    bool
	startedAt  time.Time
	elapsed    time.Duration
	laps       []model.Lap
	lapCounter uint64
}

// New returns a stopped, zeroed stopwatch.
func New() *Stopwatch {
	return &Stopwatch{}
}

// Start resumes counting from the current elapsed value. No-op while running.
func (watch *Stopwatch) Start(now time.Time) {
	if watch.running {
		return
	}
	watch.startedAt = now.Add(-watch.elapsed)
	watch.running = true
}

// Stop freezes the elapsed value. No-op while stopped.
func (watch *Stopwatch) Stop(now time.Time) {
	if !watch.running {
		return
	}
	watch.elapsed = watch.measure(now)
	watch.running = false
}

// Reset stops the stopwatch and starts a fresh session.
func (watch *Stopwatch) Reset(now time.Time) {
	watch.Stop(now)
	watch.elapsed = 0
	watch.laps = nil
	watch.lapCounter = 0
}

// RecordLap appends a lap with the current elapsed value. It returns false
// without recording when the stopwatch is not running.
func (watch *Stopwatch) RecordLap(now time.Time) (model.Lap, bool) {
	if !watch.running {
		return model.Lap{}, false
	}
	watch.lapCounter++
	lap := model.Lap{ID: watch.lapCounter, Elapsed: watch.Elapsed(now)}
	watch.laps = append(watch.laps, lap)
	return lap, true
}

// DeleteLap removes the lap with id. Unknown ids are ignored.
func (watch *Stopwatch) DeleteLap(id uint64) bool {
	for index, lap := range watch.laps {
		if lap.ID == id {
			watch.laps = append(watch.laps[:index], watch.laps[index+1:]...)
			return true
		}
	}
	return false
}

// Running reports whether the stopwatch is counting.
func (watch *Stopwatch) Running() bool {
	return watch.running
}

// Elapsed returns the elapsed time at now. While running the stored value is
// refreshed and never moves backwards, even if the clock does.
func (watch *Stopwatch) Elapsed(now time.Time) time.Duration {
	if watch.running {
		watch.elapsed = watch.measure(now)
	}
	return watch.elapsed
}

func (watch *Stopwatch) measure(now time.Time) time.Duration {
	current := now.Sub(watch.startedAt)
	if current < watch.elapsed {
		return watch.elapsed
	}
	return current
}

// State returns a copy of the stopwatch state at now.
func (watch *Stopwatch) State(now time.Time) model.StopwatchState {
	state := model.StopwatchState{
		Elapsed: watch.Elapsed(now),
		Running: watch.running,
		Laps:    append([]model.Lap(nil), watch.laps...),
	}
	if watch.running {
		startedAt := watch.startedAt
		state.StartedAt = &startedAt
	}
	return state
}
