package clock

import (
	"sort"
	"time"
)

// TimerFunc runs when a timer fires. now is the tick time that reached it.
type TimerFunc func(now time.Time)

type timer struct {
	owner    string
	name     string
	due      time.Time
	interval time.Duration
	fn       TimerFunc
	seq      uint64
}

// Arena holds named, cancellable logical timers. Timers are keyed by name;
// registering a name that is already present replaces the previous timer.
// An Arena is not safe for concurrent use; the engine serializes access.
type Arena struct {
	timers map[string]*timer
	seq    uint64
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{timers: make(map[string]*timer)}
}

// After registers a one-shot timer due at now+delay.
func (arena *Arena) After(owner, name string, now time.Time, delay time.Duration, fn TimerFunc) {
	arena.add(owner, name, now.Add(delay), 0, fn)
}

// Every registers a recurring timer first due at now+interval.
func (arena *Arena) Every(owner, name string, now time.Time, interval time.Duration, fn TimerFunc) {
	if interval <= 0 {
		return
	}
	arena.add(owner, name, now.Add(interval), interval, fn)
}

func (arena *Arena) add(owner, name string, due time.Time, interval time.Duration, fn TimerFunc) {
	arena.seq++
	arena.timers[name] = &timer{
		owner:    owner,
		name:     name,
		due:      due,
		interval: interval,
		fn:       fn,
		seq:      arena.seq,
	}
}

// Cancel disposes a timer by name. Cancelling an unknown name is a no-op.
func (arena *Arena) Cancel(name string) bool {
	if _, ok := arena.timers[name]; !ok {
		return false
	}
	delete(arena.timers, name)
	return true
}

// CancelOwner disposes every timer registered by owner and returns how many were removed.
func (arena *Arena) CancelOwner(owner string) int {
	removed := 0
	for name, entry := range arena.timers {
		if entry.owner == owner {
			delete(arena.timers, name)
			removed++
		}
	}
	return removed
}

// Active reports whether a timer with the given name is registered.
func (arena *Arena) Active(name string) bool {
	_, ok := arena.timers[name]
	return ok
}

// Due returns the next due time of a named timer.
func (arena *Arena) Due(name string) (time.Time, bool) {
	entry, ok := arena.timers[name]
	if !ok {
		return time.Time{}, false
	}
	return entry.due, true
}

// Names returns the registered timer names owned by owner, sorted.
func (arena *Arena) Names(owner string) []string {
	var names []string
	for name, entry := range arena.timers {
		if entry.owner == owner {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered timers.
func (arena *Arena) Len() int {
	return len(arena.timers)
}

// Fire runs every timer due at or before now, earliest first; timers due at the
// same instant run in registration order. A recurring timer runs at most once
// per call; missed intervals are skipped and it is rescheduled to the first
// interval boundary after now. Callbacks may register or cancel timers.
func (arena *Arena) Fire(now time.Time) int {
	fired := 0
	for {
		next := arena.nextDue(now)
		if next == nil {
			return fired
		}
		if next.interval > 0 {
			for !next.due.After(now) {
				next.due = next.due.Add(next.interval)
			}
		} else {
			delete(arena.timers, next.name)
		}
		fired++
		next.fn(now)
	}
}

func (arena *Arena) nextDue(now time.Time) *timer {
	var best *timer
	for _, entry := range arena.timers {
		if entry.due.After(now) {
			continue
		}
		if best == nil || entry.due.Before(best.due) || (entry.due.Equal(best.due) && entry.seq < best.seq) {
			best = entry
		}
	}
	return best
}
