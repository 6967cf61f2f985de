// Package notify keeps the notification queue, the popup slot and the
// auto-generation timer.
package notify

import (
	"math/rand"
	"time"

	"wristsim/internal/core/clock"
	"wristsim/internal/core/model"
	"wristsim/internal/metrics"

	"github.com/rs/zerolog"
)

// Timer names registered by the center. All are owned by Owner.
const (
	Owner        = "notify"
	TimerPopup   = "notify.popup"
	TimerSound   = "notify.sound"
	TimerVibrate = "notify.vibrate"
	TimerAuto    = "notify.auto"
)

// HealthTips is the pool auto-generation draws from on every interval.
var HealthTips = []string{
	"Stay hydrated! Drink water regularly.",
	"MindScape: Your mental health matters",
	"Take a 5-minute break and stretch",
	"MindScape: Practice deep breathing",
	"Remember to stand up and move around",
	"MindScape: Track your mood today",
}

// SystemMessages is the pool for the occasional extra system notification.
var SystemMessages = []string{
	"System update available",
	"Storage almost full",
	"Connected to WiFi",
	"Bluetooth device connected",
	"Backup completed",
}

// Cues is the audio surface the center needs.
type Cues interface {
	Play(cue model.Cue) error
	Stop(cue model.Cue)
}

// Options configures a Center.
type Options struct {
	Arena  *clock.Arena
	Cues   Cues
	Config model.EngineConfig
	Rand   *rand.Rand
	Logger zerolog.Logger
	// OnSend, if set, observes every stored notification, including the
	// ones generated from timers.
	OnSend func(model.Notification)
}

// Center is not safe for concurrent use; the engine lock serializes it
// together with the arena it registers timers on.
type Center struct {
	arena  *clock.Arena
	cues   Cues
	config model.EngineConfig
	rng    *rand.Rand
	logger zerolog.Logger
	onSend func(model.Notification)

	items     []model.Notification
	nextID    uint64
	sequence  uint64
	mode      model.NotificationMode
	powered   bool
	popup     *model.Notification
	vibrating bool
}

// New creates an unpowered center in auto mode.
func New(options Options) *Center {
	arena := options.Arena
	if arena == nil {
		arena = clock.NewArena()
	}
	rng := options.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Center{
		arena:  arena,
		cues:   options.Cues,
		config: options.Config.Normalize(),
		rng:    rng,
		logger: options.Logger,
		onSend: options.OnSend,
		mode:   model.ModeAuto,
	}
}

// UpdateConfig swaps timings. A running auto timer keeps its current due time.
func (center *Center) UpdateConfig(config model.EngineConfig) {
	center.config = config.Normalize()
}

// Send stores a new notification at the front of the list. When powered and
// kind is not Charge it also pops it up, plays the Notify cue and vibrates.
func (center *Center) Send(message string, kind model.NotificationKind, now time.Time) model.Notification {
	center.nextID++
	center.sequence++
	notification := model.Notification{
		ID:        center.nextID,
		Message:   message,
		CreatedAt: now,
		Kind:      kind,
	}
	if center.mode == model.ModeAuto {
		sequence := center.sequence
		notification.SequenceCount = &sequence
	}
	center.items = append([]model.Notification{notification}, center.items...)

	metrics.NotificationsTotal.WithLabelValues(kind.String()).Inc()
	metrics.UnreadNotifications.Set(float64(center.UnreadCount()))
	center.logger.Debug().
		Str("event", "notification.sent").
		Uint64("id", notification.ID).
		Stringer("kind", kind).
		Msg(message)

	if center.powered && kind != model.KindCharge {
		center.showPopup(notification, now)
	}
	if center.onSend != nil {
		center.onSend(notification)
	}
	return notification
}

func (center *Center) showPopup(notification model.Notification, now time.Time) {
	popup := notification
	center.popup = &popup
	center.arena.After(Owner, TimerPopup, now, center.config.PopupDuration, func(time.Time) {
		center.popup = nil
	})

	if center.cues != nil {
		if err := center.cues.Play(model.CueNotify); err == nil {
			center.arena.After(Owner, TimerSound, now, center.config.NotifySoundDuration, func(time.Time) {
				center.cues.Stop(model.CueNotify)
			})
		}
	}
	center.Vibrate(now, center.config.VibrateDuration)
}

// Vibrate raises the vibrating flag for d, extending any vibration in progress.
func (center *Center) Vibrate(now time.Time, d time.Duration) {
	if !center.powered {
		return
	}
	center.vibrating = true
	center.arena.After(Owner, TimerVibrate, now, d, func(time.Time) {
		center.vibrating = false
	})
}

// MarkAllRead marks every notification read. The popup is left alone.
func (center *Center) MarkAllRead() {
	for index := range center.items {
		center.items[index].Read = true
	}
	metrics.UnreadNotifications.Set(0)
}

// Delete removes the notification with id. Unknown ids are ignored. Deleting
// the popped notification dismisses the popup.
func (center *Center) Delete(id uint64) bool {
	for index, item := range center.items {
		if item.ID != id {
			continue
		}
		center.items = append(center.items[:index], center.items[index+1:]...)
		if center.popup != nil && center.popup.ID == id {
			center.dismissPopup()
		}
		metrics.UnreadNotifications.Set(float64(center.UnreadCount()))
		return true
	}
	return false
}

// Clear removes every notification and resets the sequence counter. Ids keep counting.
func (center *Center) Clear() {
	center.items = nil
	center.sequence = 0
	center.dismissPopup()
	metrics.UnreadNotifications.Set(0)
}

func (center *Center) dismissPopup() {
	center.popup = nil
	center.arena.Cancel(TimerPopup)
}

// UnreadCount returns the number of unread notifications.
func (center *Center) UnreadCount() int {
	unread := 0
	for _, item := range center.items {
		if !item.Read {
			unread++
		}
	}
	return unread
}

// List returns a copy of the notifications, most recent first.
func (center *Center) List() []model.Notification {
	out := make([]model.Notification, len(center.items))
	copy(out, center.items)
	return out
}

// Popup returns the popped notification, if any.
func (center *Center) Popup() *model.Notification {
	if center.popup == nil {
		return nil
	}
	popup := *center.popup
	return &popup
}

// Vibrating reports whether the vibrate flag is up.
func (center *Center) Vibrating() bool {
	return center.vibrating
}

// Mode returns the generation mode.
func (center *Center) Mode() model.NotificationMode {
	return center.mode
}

// SetMode switches the generation mode. Manual stops generation at once;
// switching to Auto while powered restarts it with a welcome notification.
// Setting the current mode is a no-op. It reports whether the mode changed.
func (center *Center) SetMode(mode model.NotificationMode, now time.Time) bool {
	if mode == center.mode {
		return false
	}
	center.mode = mode
	switch mode {
	case model.ModeManual:
		center.StopAuto()
	case model.ModeAuto:
		center.StartAuto(now)
	}
	return true
}

// RestoreMode sets the mode without starting or stopping generation. It is
// used when loading persisted settings before power-on.
func (center *Center) RestoreMode(mode model.NotificationMode) {
	center.mode = mode
}

// SetPowered records the power state. Losing power drops the popup, the
// vibrate flag and every timer the center owns.
func (center *Center) SetPowered(powered bool) {
	center.powered = powered
	if powered {
		return
	}
	center.popup = nil
	center.vibrating = false
	center.arena.CancelOwner(Owner)
}

// Powered reports whether the center considers the device on.
func (center *Center) Powered() bool {
	return center.powered
}

// StartAuto sends the welcome notification and restarts the generation timer.
// It does nothing unless powered in auto mode.
func (center *Center) StartAuto(now time.Time) bool {
	if !center.powered || center.mode != model.ModeAuto {
		return false
	}
	center.Send(center.pick(HealthTips), model.KindHealth, now)
	center.arena.Every(Owner, TimerAuto, now, center.config.AutoInterval, center.generate)
	center.logger.Debug().Str("event", "notification.auto_started").Dur("interval", center.config.AutoInterval).Msg("auto generation started")
	return true
}

// StopAuto cancels the generation timer.
func (center *Center) StopAuto() {
	center.arena.Cancel(TimerAuto)
}

// AutoRunning reports whether the generation timer is registered.
func (center *Center) AutoRunning() bool {
	return center.arena.Active(TimerAuto)
}

func (center *Center) generate(now time.Time) {
	center.Send(center.pick(HealthTips), model.KindHealth, now)
	if center.rng.Float64() < center.config.SystemMessageProbability {
		center.Send(center.pick(SystemMessages), model.KindSystem, now)
	}
}

func (center *Center) pick(pool []string) string {
	return pool[center.rng.Intn(len(pool))]
}
