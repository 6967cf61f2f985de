// Package alarm holds the single recurring daily alarm.
package alarm

import (
	"errors"
	"fmt"
	"time"

	"wristsim/internal/core/model"
)

// ErrInvalidTime indicates an hour or minute outside the clock face.
var ErrInvalidTime = errors.New("invalid alarm time")

// Scheduler holds zero or one alarm. The alarm recurs daily and never disarms
// itself when it fires. Checking can be suspended without touching the arming.
type Scheduler struct {
	hour     int
	minute   int
	armed    bool
	next     time.Time
	checking bool
}

// NewScheduler returns a scheduler with no alarm and checking enabled.
func NewScheduler() *Scheduler {
	return &Scheduler{checking: true}
}

// Set arms the alarm for hour:minute, due at the next such instant strictly after now.
func (scheduler *Scheduler) Set(hour, minute int, now time.Time) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	scheduler.hour = hour
	scheduler.minute = minute
	scheduler.armed = true
	scheduler.next = NextOccurrence(hour, minute, now)
	return nil
}

// Cancel disarms the alarm.
func (scheduler *Scheduler) Cancel() {
	scheduler.armed = false
	scheduler.next = time.Time{}
}

// Suspend stops tick checking; the alarm stays armed.
func (scheduler *Scheduler) Suspend() {
	scheduler.checking = false
}

// Resume re-enables tick checking.
func (scheduler *Scheduler) Resume() {
	scheduler.checking = true
}

// Checking reports whether ticks are checked against the trigger.
func (scheduler *Scheduler) Checking() bool {
	return scheduler.checking
}

// Check fires the alarm when now has reached the trigger. On fire the trigger
// moves to the next occurrence strictly after now and the alarm stays armed.
// It returns the trigger instant that fired.
func (scheduler *Scheduler) Check(now time.Time) (time.Time, bool) {
	if !scheduler.checking || !scheduler.armed || now.Before(scheduler.next) {
		return time.Time{}, false
	}
	fired := scheduler.next
	scheduler.next = NextOccurrence(scheduler.hour, scheduler.minute, now)
	return fired, true
}

// State returns the alarm record.
func (scheduler *Scheduler) State() model.Alarm {
	state := model.Alarm{
		Hour:   scheduler.hour,
		Minute: scheduler.minute,
		Armed:  scheduler.armed,
	}
	if scheduler.armed {
		next := scheduler.next
		state.NextTrigger = &next
	}
	return state
}

// NextOccurrence returns the first hour:minute:00 in now's location that is
// strictly after now.
func NextOccurrence(hour, minute int, now time.Time) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	for !candidate.After(now) {
		candidate = time.Date(candidate.Year(), candidate.Month(), candidate.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return candidate
}
