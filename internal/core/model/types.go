package model

import (
	"fmt"
	"time"
)

// PowerState represents the device power lifecycle.
type PowerState int

const (
	PowerOff PowerState = iota
	PowerOn
	PowerTransientCharging
)

func (state PowerState) String() string {
	switch state {
	case PowerOff:
		return "off"
	case PowerOn:
		return "on"
	case PowerTransientCharging:
		return "transient_charging"
	default:
		return fmt.Sprintf("power(%d)", int(state))
	}
}

// Powered reports whether the device accepts user-facing activity.
func (state PowerState) Powered() bool {
	return state == PowerOn || state == PowerTransientCharging
}

// MarshalText implements encoding.TextMarshaler.
func (state PowerState) MarshalText() ([]byte, error) {
	return []byte(state.String()), nil
}

// DeviceView is a navigable watch screen.
type DeviceView int

const (
	ViewHome DeviceView = iota
	ViewSettings
	ViewAlarm
	ViewMusic
	ViewHeartRate
	ViewMessages
	ViewAppDrawer
)

// Views lists every screen in menu order.
var Views = []DeviceView{ViewHome, ViewSettings, ViewAlarm, ViewMusic, ViewHeartRate, ViewMessages, ViewAppDrawer}

func (view DeviceView) String() string {
	switch view {
	case ViewHome:
		return "home"
	case ViewSettings:
		return "settings"
	case ViewAlarm:
		return "alarm"
	case ViewMusic:
		return "music"
	case ViewHeartRate:
		return "heartrate"
	case ViewMessages:
		return "messages"
	case ViewAppDrawer:
		return "app_drawer"
	default:
		return fmt.Sprintf("view(%d)", int(view))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (view DeviceView) MarshalText() ([]byte, error) {
	return []byte(view.String()), nil
}

// ParseView converts a screen name into a DeviceView.
func ParseView(value string) (DeviceView, error) {
	for _, view := range Views {
		if view.String() == value {
			return view, nil
		}
	}
	return ViewHome, fmt.Errorf("unknown view %q", value)
}

// NotificationKind classifies a notification.
type NotificationKind int

const (
	KindHealth NotificationKind = iota
	KindSystem
	KindAlarm
	KindMessage
	KindCharge
)

func (kind NotificationKind) String() string {
	switch kind {
	case KindHealth:
		return "health"
	case KindSystem:
		return "system"
	case KindAlarm:
		return "alarm"
	case KindMessage:
		return "message"
	case KindCharge:
		return "charge"
	default:
		return fmt.Sprintf("kind(%d)", int(kind))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (kind NotificationKind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

// NotificationMode selects how notifications are produced.
type NotificationMode int

const (
	ModeAuto NotificationMode = iota
	ModeManual
)

func (mode NotificationMode) String() string {
	switch mode {
	case ModeAuto:
		return "auto"
	case ModeManual:
		return "manual"
	default:
		return fmt.Sprintf("mode(%d)", int(mode))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (mode NotificationMode) MarshalText() ([]byte, error) {
	return []byte(mode.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (mode *NotificationMode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*mode = parsed
	return nil
}

// ParseMode converts "auto" or "manual" into a NotificationMode.
func ParseMode(value string) (NotificationMode, error) {
	switch value {
	case "auto":
		return ModeAuto, nil
	case "manual":
		return ModeManual, nil
	default:
		return ModeAuto, fmt.Errorf("unknown notification mode %q", value)
	}
}

// Cue is a named logical sound effect.
type Cue int

const (
	CueAlarm Cue = iota
	CueBeep
	CueHeartbeat
	CueCharge
	CueDischarge
	CueNotify
)

// Cues lists every cue kind.
var Cues = []Cue{CueAlarm, CueBeep, CueHeartbeat, CueCharge, CueDischarge, CueNotify}

func (cue Cue) String() string {
	switch cue {
	case CueAlarm:
		return "alarm"
	case CueBeep:
		return "beep"
	case CueHeartbeat:
		return "heartbeat"
	case CueCharge:
		return "charge"
	case CueDischarge:
		return "discharge"
	case CueNotify:
		return "notify"
	default:
		return fmt.Sprintf("cue(%d)", int(cue))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (cue Cue) MarshalText() ([]byte, error) {
	return []byte(cue.String()), nil
}

// Alarm is the single daily alarm. NextTrigger is set iff Armed.
type Alarm struct {
	Hour        int        `json:"hour"`
	Minute      int        `json:"minute"`
	Armed       bool       `json:"armed"`
	NextTrigger *time.Time `json:"next_trigger,omitempty"`
}

// Lap is a recorded stopwatch split.
type Lap struct {
	ID      uint64        `json:"id"`
	Elapsed time.Duration `json:"elapsed_ms"`
}

// StopwatchState is a point-in-time view of the stopwatch.
type StopwatchState struct {
	Elapsed   time.Duration `json:"elapsed_ms"`
	Running   bool          `json:"running"`
	StartedAt *time.Time    `json:"started_at,omitempty"`
	Laps      []Lap         `json:"laps"`
}

// Notification is a single entry in the notification list.
type Notification struct {
	ID            uint64           `json:"id"`
	Message       string           `json:"message"`
	CreatedAt     time.Time        `json:"created_at"`
	Kind          NotificationKind `json:"kind"`
	Read          bool             `json:"read"`
	SequenceCount *uint64          `json:"sequence_count,omitempty"`
}

// BatteryStatus describes the battery. LevelPercent is always within [0,100].
type BatteryStatus struct {
	LevelPercent int  `json:"level_percent"`
	Charging     bool `json:"charging"`
}

// ClampLevel bounds a battery level to [0,100].
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// Track is a playlist entry.
type Track struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration string `json:"duration"`
}

// MusicState is the music player view.
type MusicState struct {
	Track   Track `json:"track"`
	Index   int   `json:"index"`
	Playing bool  `json:"playing"`
}

// Snapshot is an immutable copy of the engine state for the presentation layer.
type Snapshot struct {
	Power            PowerState       `json:"power"`
	CurrentTime      time.Time        `json:"current_time"`
	Battery          BatteryStatus    `json:"battery"`
	Alarm            Alarm            `json:"alarm"`
	Stopwatch        StopwatchState   `json:"stopwatch"`
	Notifications    []Notification   `json:"notifications"`
	UnreadCount      int              `json:"unread_count"`
	View             DeviceView       `json:"view"`
	ActivePopup      *Notification    `json:"active_popup,omitempty"`
	Vibrating        bool             `json:"vibrating"`
	NotificationMode NotificationMode `json:"notification_mode"`
	HeartRate        int              `json:"heart_rate"`
	Music            MusicState       `json:"music"`
	ActiveCues       []Cue            `json:"active_cues"`
	DarkMode         bool             `json:"dark_mode"`
	Brightness       int              `json:"brightness"`
	HasWallpaper     bool             `json:"has_wallpaper"`
}
