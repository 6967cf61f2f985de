package watch

import (
	"time"

	"wristsim/internal/core/model"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventPower        EventType = "power"
	EventNotification EventType = "notification"
	EventAlarm        EventType = "alarm"
	EventBattery      EventType = "battery"
	EventView         EventType = "view"
	EventTick         EventType = "tick"
	EventSettings     EventType = "settings"
	EventStopwatch    EventType = "stopwatch"
	EventMusic        EventType = "music"
)

// Event represents an engine update for observers.
type Event struct {
	Type         EventType
	Power        model.PowerState
	Notification *model.Notification
	Snapshot     model.Snapshot
	Message      string
	At           time.Time
}
