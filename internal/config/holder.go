package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	xlog "wristsim/internal/log"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDebounce = 500 * time.Millisecond

// Holder keeps the current configuration and reloads it when the file changes.
type Holder struct {
	mu      sync.RWMutex
	current Config
	path    string
	logger  zerolog.Logger

	listenersMu sync.RWMutex
	listeners   []chan<- Config
}

// NewHolder creates a holder for the file at path.
func NewHolder(initial Config, path string) *Holder {
	return &Holder{
		current: initial,
		path:    path,
		logger:  xlog.WithComponent("config"),
	}
}

// Get returns the current configuration.
func (holder *Holder) Get() Config {
	holder.mu.RLock()
	defer holder.mu.RUnlock()
	return holder.current
}

// Path returns the watched file.
func (holder *Holder) Path() string {
	return holder.path
}

// Reload re-reads the file. On error the current configuration is kept.
func (holder *Holder) Reload() error {
	next, err := Load(holder.path)
	if err != nil {
		holder.logger.Error().Err(err).Str("event", "config.reload_failed").Msg("failed to reload configuration")
		return fmt.Errorf("reload config: %w", err)
	}

	holder.mu.Lock()
	holder.current = next
	holder.mu.Unlock()

	holder.notifyListeners(next)
	holder.logger.Info().Str("event", "config.reloaded").Str("path", holder.path).Msg("configuration reloaded")
	return nil
}

// RegisterListener adds a channel that receives every successfully reloaded
// configuration. Sends are non-blocking.
func (holder *Holder) RegisterListener(ch chan<- Config) {
	holder.listenersMu.Lock()
	defer holder.listenersMu.Unlock()
	holder.listeners = append(holder.listeners, ch)
}

func (holder *Holder) notifyListeners(config Config) {
	holder.listenersMu.RLock()
	defer holder.listenersMu.RUnlock()
	for _, ch := range holder.listeners {
		select {
		case ch <- config:
		default:
			holder.logger.Warn().Str("event", "config.listener_skip").Msg("skipped notifying listener (channel full)")
		}
	}
}

// Watch blocks until ctx is done, reloading after writes to the config file.
// The parent directory is watched so editors that replace the file are seen.
func (holder *Holder) Watch(ctx context.Context) error {
	if holder.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(holder.path)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}
	holder.logger.Info().Str("event", "config.watcher_started").Str("path", holder.path).Msg("watching config file")

	target := filepath.Clean(holder.path)
	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			holder.logger.Debug().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload = time.After(reloadDebounce)
			}
		case <-reload:
			reload = nil
			_ = holder.Reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				reload = time.After(reloadDebounce)
			}
			holder.logger.Error().Err(err).Str("event", "config.watcher_error").Msg("config watcher error")
		}
	}
}
