// Package watch drives the simulated watch: power lifecycle, tick ordering
// and the commands the presentation layer issues.
package watch

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"wristsim/internal/core/alarm"
	"wristsim/internal/core/audio"
	"wristsim/internal/core/battery"
	"wristsim/internal/core/clock"
	"wristsim/internal/core/model"
	"wristsim/internal/core/music"
	"wristsim/internal/core/navigator"
	"wristsim/internal/core/notify"
	"wristsim/internal/core/stopwatch"
	xlog "wristsim/internal/log"
	"wristsim/internal/metrics"
	"wristsim/internal/storage"

	"github.com/rs/zerolog"
)

var (
	// ErrNotManualClock is returned by Advance when the engine runs on real time.
	ErrNotManualClock = errors.New("engine clock is not manual")
	// ErrNotSimulated is returned by SetCharging when a host battery is in use.
	ErrNotSimulated = errors.New("battery is not simulated")
	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("engine closed")
)

// Timer owners and names registered by the engine itself.
const (
	ownerPower      = "power"
	ownerHealth     = "health"
	timerTransient  = "power.transient"
	timerHeartRate  = "health.heartrate"
	alarmMessage    = "Alarm! Time to wake up!"
	chargeConnected = "Charger connected"
	chargeRemoved   = "Charger disconnected"

	defaultHeartRate    = 72
	minHeartRate        = 60
	maxHeartRate        = 120
	defaultBrightness   = 80
	defaultBatteryLevel = 85
)

// Options wires the engine to its collaborators. Every field is optional.
type Options struct {
	Config model.EngineConfig
	Clock  clock.Clock
	// BatterySource is the host battery. Nil runs on the simulated battery.
	BatterySource       battery.Source
	InitialBatteryLevel int
	Player              audio.Player
	Store               storage.Store
	Logger              *zerolog.Logger
}

// Engine is the watch state machine. All commands and ticks are serialized by
// one mutex, so each transition is atomic to observers.
type Engine struct {
	mu     sync.Mutex
	config model.EngineConfig
	clock  clock.Clock
	arena  *clock.Arena
	rng    *rand.Rand
	logger zerolog.Logger
	store  storage.Store

	power     model.PowerState
	monitor   *battery.Monitor
	battery   model.BatteryStatus
	audio     *audio.Manager
	alarm     *alarm.Scheduler
	stopwatch *stopwatch.Stopwatch
	center    *notify.Center
	nav       *navigator.Navigator
	music     *music.Player

	heartRate  int
	darkMode   bool
	brightness int
	wallpaper  []byte

	events      []chan Event
	reconfigure chan struct{}
	stopCh      chan struct{}
	closed      bool
}

// New creates a powered-off engine and restores persisted settings.
func New(options Options) *Engine {
	config := options.Config.Normalize()
	clk := options.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	componentLogger := func(component string) zerolog.Logger {
		if options.Logger != nil {
			return *options.Logger
		}
		return xlog.WithComponent(component)
	}
	logger := componentLogger("watch")
	store := options.Store
	if store == nil {
		store = storage.NewMemory()
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	level := options.InitialBatteryLevel
	if level <= 0 || level > 100 {
		level = defaultBatteryLevel
	}

	engine := &Engine{
		config:      config,
		clock:       clk,
		arena:       clock.NewArena(),
		rng:         rand.New(rand.NewSource(seed)),
		logger:      logger,
		store:       store,
		power:       model.PowerOff,
		alarm:       alarm.NewScheduler(),
		stopwatch:   stopwatch.New(),
		nav:         navigator.New(),
		music:       music.NewPlayer(nil),
		heartRate:   defaultHeartRate,
		brightness:  defaultBrightness,
		reconfigure: make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
	}

	audioLogger := componentLogger("audio")
	engine.audio = audio.NewManager(options.Player, &audioLogger)

	fallback := battery.NewSimulated(clk, config.Battery, float64(level))
	engine.monitor = battery.NewMonitor(options.BatterySource, fallback, componentLogger("battery"))

	engine.center = notify.New(notify.Options{
		Arena:  engine.arena,
		Cues:   engine.audio,
		Config: config,
		Rand:   engine.rng,
		Logger: componentLogger("notify"),
		OnSend: engine.notificationSent,
	})

	engine.alarm.Suspend()
	engine.restoreSettings()
	engine.battery, _ = engine.monitor.Poll()
	metrics.BatteryLevel.Set(float64(engine.battery.LevelPercent))
	return engine
}

// Subscribe registers a new observer channel. Slow observers miss events.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Run ticks the engine at the configured interval until ctx is done or the
// engine is closed.
func (engine *Engine) Run(ctx context.Context) error {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return ErrClosed
	}
	interval := engine.config.TickInterval
	engine.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-engine.stopCh:
			return nil
		case <-engine.reconfigure:
			engine.mu.Lock()
			interval = engine.config.TickInterval
			engine.mu.Unlock()
			ticker.Reset(interval)
		case <-ticker.C:
			engine.Tick(engine.clock.Now())
		}
	}
}

// Close stops Run, disposes timers, releases cues, closes observers and the store.
func (engine *Engine) Close() error {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return nil
	}
	engine.closed = true
	close(engine.stopCh)
	engine.arena.CancelOwner(ownerPower)
	engine.arena.CancelOwner(ownerHealth)
	engine.center.SetPowered(false)
	engine.audio.StopAll()
	events := engine.events
	engine.events = nil
	store := engine.store
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
	return store.Close()
}

// UpdateConfig applies new timings. Running timers keep their due times; the
// Run loop picks up a new tick interval.
func (engine *Engine) UpdateConfig(config model.EngineConfig) {
	engine.mu.Lock()
	config = config.Normalize()
	if config.Seed == 0 {
		config.Seed = engine.config.Seed
	}
	engine.config = config
	engine.center.UpdateConfig(config)
	engine.monitor.Fallback().SetRates(config.Battery)
	engine.mu.Unlock()

	select {
	case engine.reconfigure <- struct{}{}:
	default:
	}
}

// Tick advances the engine to now: battery poll, then alarm check, then the
// logical timers in due order.
func (engine *Engine) Tick(now time.Time) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}

	engine.pollBatteryLocked(now)
	if engine.power.Powered() {
		if _, fired := engine.alarm.Check(now); fired {
			engine.fireAlarmLocked(now)
		}
	}
	engine.arena.Fire(now)
	engine.emitLocked(Event{Type: EventTick, Power: engine.power, At: now})
}

// Advance moves a manual clock forward by d one tick interval at a time,
// ticking after each step.
func (engine *Engine) Advance(d time.Duration) error {
	manual, ok := engine.clock.(*clock.Manual)
	if !ok {
		return ErrNotManualClock
	}
	engine.mu.Lock()
	step := engine.config.TickInterval
	engine.mu.Unlock()

	for d > 0 {
		delta := step
		if d < step {
			delta = d
		}
		d -= delta
		engine.Tick(manual.Add(delta))
	}
	return nil
}

func (engine *Engine) pollBatteryLocked(now time.Time) {
	status, transition := engine.monitor.Poll()
	changed := status != engine.battery
	engine.battery = status
	metrics.BatteryLevel.Set(float64(status.LevelPercent))

	if transition == battery.TransitionNone || !engine.power.Powered() {
		if changed {
			engine.emitLocked(Event{Type: EventBattery, Power: engine.power, At: now})
		}
		return
	}

	engine.logger.Info().Str("event", "battery."+transition.String()).Int("level", status.LevelPercent).Msg("charger state changed")
	if transition == battery.TransitionConnected {
		engine.center.Send(chargeConnected, model.KindCharge, now)
		_ = engine.audio.Play(model.CueCharge)
		engine.enterTransientLocked(now)
	} else {
		engine.center.Send(chargeRemoved, model.KindCharge, now)
		_ = engine.audio.Play(model.CueDischarge)
	}
	engine.emitLocked(Event{Type: EventBattery, Power: engine.power, Message: transition.String(), At: now})
}

func (engine *Engine) fireAlarmLocked(now time.Time) {
	metrics.AlarmFiresTotal.Inc()
	engine.logger.Info().Str("event", "alarm.fired").Time("at", now).Msg("alarm fired")
	notification := engine.center.Send(alarmMessage, model.KindAlarm, now)
	_ = engine.audio.Play(model.CueAlarm)
	engine.center.Vibrate(now, engine.config.AlarmVibrateDuration)
	engine.emitLocked(Event{Type: EventAlarm, Power: engine.power, Notification: &notification, Message: "fired", At: now})
}

func (engine *Engine) enterTransientLocked(now time.Time) {
	engine.setPowerLocked(model.PowerTransientCharging, now)
	engine.arena.After(ownerPower, timerTransient, now, engine.config.TransientChargingWindow, func(at time.Time) {
		if engine.power == model.PowerTransientCharging {
			engine.setPowerLocked(model.PowerOn, at)
		}
	})
}

func (engine *Engine) setPowerLocked(state model.PowerState, now time.Time) {
	if engine.power == state {
		return
	}
	engine.power = state
	metrics.PowerTransitionsTotal.WithLabelValues(state.String()).Inc()
	engine.logger.Info().Str("event", "power."+state.String()).Msg("power state changed")
	engine.emitLocked(Event{Type: EventPower, Power: state, At: now})
}

func (engine *Engine) notificationSent(notification model.Notification) {
	engine.emitLocked(Event{Type: EventNotification, Power: engine.power, Notification: &notification, At: notification.CreatedAt})
}

func (engine *Engine) heartbeat(time.Time) {
	engine.heartRate += engine.rng.Intn(3) - 1
	if engine.heartRate < minHeartRate {
		engine.heartRate = minHeartRate
	}
	if engine.heartRate > maxHeartRate {
		engine.heartRate = maxHeartRate
	}
}

// PowerOn turns the watch on. It is a no-op unless the watch is off.
func (engine *Engine) PowerOn() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.power != model.PowerOff {
		return
	}
	now := engine.clock.Now()

	engine.setPowerLocked(model.PowerOn, now)
	engine.alarm.Resume()
	engine.center.SetPowered(true)
	engine.arena.Every(ownerHealth, timerHeartRate, now, engine.config.HeartRateInterval, engine.heartbeat)

	engine.battery, _ = engine.monitor.Poll()
	if engine.battery.Charging {
		engine.enterTransientLocked(now)
	}
	engine.center.StartAuto(now)
}

// PowerOff turns the watch off. The stopwatch stops with its elapsed time and
// laps kept, the alarm stays armed but is not checked, cues are released and
// every power, notification and health timer is disposed.
func (engine *Engine) PowerOff() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || !engine.power.Powered() {
		return
	}
	now := engine.clock.Now()

	engine.stopwatch.Stop(now)
	engine.alarm.Suspend()
	engine.audio.StopAll()
	engine.arena.CancelOwner(ownerPower)
	engine.arena.CancelOwner(ownerHealth)
	engine.center.SetPowered(false)
	engine.music.Pause()
	engine.nav.Home()
	engine.setPowerLocked(model.PowerOff, now)
}

// Navigate switches screens. Ignored while off.
func (engine *Engine) Navigate(view model.DeviceView) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.power.Powered() {
		return
	}
	engine.showLocked(view)
}

// PressLeft toggles between home and the heart-rate screen.
func (engine *Engine) PressLeft() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.power.Powered() {
		return
	}
	if engine.nav.View() == model.ViewHome {
		engine.showLocked(model.ViewHeartRate)
	} else {
		engine.showLocked(model.ViewHome)
	}
}

// PressRight opens the app drawer from home, otherwise returns home.
func (engine *Engine) PressRight() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.power.Powered() {
		return
	}
	if engine.nav.View() == model.ViewHome {
		engine.showLocked(model.ViewAppDrawer)
	} else {
		engine.showLocked(model.ViewHome)
	}
}

func (engine *Engine) showLocked(view model.DeviceView) {
	previous := engine.nav.Navigate(view)
	if previous == model.ViewHeartRate && view != model.ViewHeartRate {
		engine.audio.Stop(model.CueHeartbeat)
	}
	if view == model.ViewHeartRate && previous != model.ViewHeartRate {
		_ = engine.audio.Loop(model.CueHeartbeat)
	}
	if view == model.ViewMessages {
		engine.center.MarkAllRead()
	}
	engine.emitLocked(Event{Type: EventView, Power: engine.power, Message: view.String(), At: engine.clock.Now()})
}

// SetAlarm arms the daily alarm. Invalid times leave the alarm untouched.
func (engine *Engine) SetAlarm(hour, minute int) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	if err := engine.alarm.Set(hour, minute, now); err != nil {
		return err
	}
	engine.logger.Info().Str("event", "alarm.set").Int("hour", hour).Int("minute", minute).Msg("alarm set")
	engine.emitLocked(Event{Type: EventAlarm, Power: engine.power, Message: "set", At: now})
	return nil
}

// CancelAlarm disarms the alarm and silences the alarm cue.
func (engine *Engine) CancelAlarm() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.alarm.Cancel()
	engine.audio.Stop(model.CueAlarm)
	engine.emitLocked(Event{Type: EventAlarm, Power: engine.power, Message: "cancelled", At: engine.clock.Now()})
}

// StartStopwatch starts or resumes the stopwatch. Ignored while off.
func (engine *Engine) StartStopwatch() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.power.Powered() {
		return
	}
	now := engine.clock.Now()
	engine.stopwatch.Start(now)
	engine.emitLocked(Event{Type: EventStopwatch, Power: engine.power, Message: "started", At: now})
}

// StopStopwatch freezes the stopwatch.
func (engine *Engine) StopStopwatch() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	engine.stopwatch.Stop(now)
	engine.emitLocked(Event{Type: EventStopwatch, Power: engine.power, Message: "stopped", At: now})
}

// ResetStopwatch zeroes the stopwatch and drops its laps.
func (engine *Engine) ResetStopwatch() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	engine.stopwatch.Reset(now)
	engine.emitLocked(Event{Type: EventStopwatch, Power: engine.power, Message: "reset", At: now})
}

// RecordLap records a lap and beeps. It reports false when the stopwatch is stopped.
func (engine *Engine) RecordLap() (model.Lap, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	lap, ok := engine.stopwatch.RecordLap(now)
	if !ok {
		return lap, false
	}
	if engine.power.Powered() {
		_ = engine.audio.Play(model.CueBeep)
	}
	engine.emitLocked(Event{Type: EventStopwatch, Power: engine.power, Message: "lap", At: now})
	return lap, true
}

// DeleteLap removes a lap by id.
func (engine *Engine) DeleteLap(id uint64) bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.stopwatch.DeleteLap(id) {
		return false
	}
	engine.emitLocked(Event{Type: EventStopwatch, Power: engine.power, Message: "lap_deleted", At: engine.clock.Now()})
	return true
}

// SendNotification stores a notification and returns it.
func (engine *Engine) SendNotification(message string, kind model.NotificationKind) model.Notification {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.center.Send(message, kind, engine.clock.Now())
}

// MarkAllRead marks every notification read.
func (engine *Engine) MarkAllRead() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.center.MarkAllRead()
	engine.emitLocked(Event{Type: EventNotification, Power: engine.power, Message: "read", At: engine.clock.Now()})
}

// DeleteNotification removes one notification.
func (engine *Engine) DeleteNotification(id uint64) bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.center.Delete(id) {
		return false
	}
	engine.emitLocked(Event{Type: EventNotification, Power: engine.power, Message: "deleted", At: engine.clock.Now()})
	return true
}

// ClearAllNotifications removes every notification.
func (engine *Engine) ClearAllNotifications() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.center.Clear()
	engine.emitLocked(Event{Type: EventNotification, Power: engine.power, Message: "cleared", At: engine.clock.Now()})
}

// SetNotificationMode switches between auto and manual generation and persists the choice.
func (engine *Engine) SetNotificationMode(mode model.NotificationMode) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	if !engine.center.SetMode(mode, now) {
		return nil
	}
	engine.emitLocked(Event{Type: EventSettings, Power: engine.power, Message: storage.KeyNotificationMode, At: now})
	value, _ := mode.MarshalText()
	return engine.persistLocked(storage.KeyNotificationMode, value)
}

// MusicPlayPause toggles playback. Ignored while off.
func (engine *Engine) MusicPlayPause() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.power.Powered() {
		engine.music.PlayPause()
		engine.emitLocked(Event{Type: EventMusic, Power: engine.power, At: engine.clock.Now()})
	}
}

// MusicNext skips to the next track.
func (engine *Engine) MusicNext() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.power.Powered() {
		engine.music.Next()
		engine.emitLocked(Event{Type: EventMusic, Power: engine.power, At: engine.clock.Now()})
	}
}

// MusicPrev skips to the previous track.
func (engine *Engine) MusicPrev() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.power.Powered() {
		engine.music.Prev()
		engine.emitLocked(Event{Type: EventMusic, Power: engine.power, At: engine.clock.Now()})
	}
}

// SetCharging plugs or unplugs the virtual charger and polls the battery at once.
func (engine *Engine) SetCharging(charging bool) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.monitor.Simulated() {
		return ErrNotSimulated
	}
	engine.monitor.Fallback().SetCharging(charging)
	engine.pollBatteryLocked(engine.clock.Now())
	return nil
}

// Snapshot returns a copy of the current state.
func (engine *Engine) Snapshot() model.Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked(engine.clock.Now())
}

func (engine *Engine) snapshotLocked(now time.Time) model.Snapshot {
	return model.Snapshot{
		Power:            engine.power,
		CurrentTime:      now,
		Battery:          engine.battery,
		Alarm:            engine.alarm.State(),
		Stopwatch:        engine.stopwatch.State(now),
		Notifications:    engine.center.List(),
		UnreadCount:      engine.center.UnreadCount(),
		View:             engine.nav.View(),
		ActivePopup:      engine.center.Popup(),
		Vibrating:        engine.center.Vibrating(),
		NotificationMode: engine.center.Mode(),
		HeartRate:        engine.heartRate,
		Music:            engine.music.State(),
		ActiveCues:       engine.audio.Active(),
		DarkMode:         engine.darkMode,
		Brightness:       engine.brightness,
		HasWallpaper:     len(engine.wallpaper) > 0,
	}
}

func (engine *Engine) emitLocked(event Event) {
	if len(engine.events) == 0 {
		return
	}
	event.Snapshot = engine.snapshotLocked(event.At)
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
