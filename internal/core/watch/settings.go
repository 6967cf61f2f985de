package watch

import (
	"context"
	"errors"
	"strconv"
	"time"

	"wristsim/internal/core/model"
	"wristsim/internal/metrics"
	"wristsim/internal/storage"
)

const storageTimeout = 2 * time.Second

// SetWallpaper stores the wallpaper blob. The engine never interprets it.
// A storage failure is returned but the blob is still kept in memory.
func (engine *Engine) SetWallpaper(image []byte) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.wallpaper = append([]byte(nil), image...)
	engine.emitLocked(Event{Type: EventSettings, Power: engine.power, Message: storage.KeyWallpaper, At: engine.clock.Now()})
	return engine.persistLocked(storage.KeyWallpaper, engine.wallpaper)
}

// Wallpaper returns a copy of the stored wallpaper blob.
func (engine *Engine) Wallpaper() []byte {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return append([]byte(nil), engine.wallpaper...)
}

// SetDarkMode toggles the dark theme flag.
func (engine *Engine) SetDarkMode(enabled bool) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.darkMode = enabled
	engine.emitLocked(Event{Type: EventSettings, Power: engine.power, Message: storage.KeyDarkMode, At: engine.clock.Now()})
	return engine.persistLocked(storage.KeyDarkMode, []byte(strconv.FormatBool(enabled)))
}

// SetBrightness sets the screen brightness, clamped to [0,100].
func (engine *Engine) SetBrightness(percent int) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.brightness = model.ClampLevel(percent)
	engine.emitLocked(Event{Type: EventSettings, Power: engine.power, Message: storage.KeyBrightness, At: engine.clock.Now()})
	return engine.persistLocked(storage.KeyBrightness, []byte(strconv.Itoa(engine.brightness)))
}

func (engine *Engine) persistLocked(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	if err := engine.store.Put(ctx, key, value); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("put").Inc()
		engine.logger.Warn().Err(err).Str("event", "storage.write_failed").Str("key", key).Msg("keeping value in memory")
		if !errors.Is(err, storage.ErrStorageUnavailable) {
			err = errors.Join(storage.ErrStorageUnavailable, err)
		}
		return err
	}
	return nil
}

// restoreSettings loads persisted values. Missing keys keep defaults; read
// failures are logged and counted.
func (engine *Engine) restoreSettings() {
	if value, ok := engine.load(storage.KeyWallpaper); ok {
		engine.wallpaper = value
	}
	if value, ok := engine.load(storage.KeyNotificationMode); ok {
		var mode model.NotificationMode
		if err := mode.UnmarshalText(value); err == nil {
			engine.center.RestoreMode(mode)
		}
	}
	if value, ok := engine.load(storage.KeyDarkMode); ok {
		if enabled, err := strconv.ParseBool(string(value)); err == nil {
			engine.darkMode = enabled
		}
	}
	if value, ok := engine.load(storage.KeyBrightness); ok {
		if percent, err := strconv.Atoi(string(value)); err == nil {
			engine.brightness = model.ClampLevel(percent)
		}
	}
}

func (engine *Engine) load(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	value, err := engine.store.Get(ctx, key)
	if err == nil {
		return value, true
	}
	if !errors.Is(err, storage.ErrNotFound) {
		metrics.StorageErrorsTotal.WithLabelValues("get").Inc()
		engine.logger.Warn().Err(err).Str("event", "storage.read_failed").Str("key", key).Msg("using default")
	}
	return nil, false
}
