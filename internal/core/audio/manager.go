// Package audio owns the per-cue playback handle table.
package audio

import (
	"errors"
	"fmt"
	"sync"

	"wristsim/internal/core/model"
	xlog "wristsim/internal/log"
	"wristsim/internal/metrics"

	"github.com/rs/zerolog"
)

// ErrAudioUnavailable indicates a cue could not be played.
var ErrAudioUnavailable = errors.New("audio unavailable")

// Manager holds at most one live handle per cue kind.
type Manager struct {
	mu      sync.Mutex
	player  Player
	handles map[model.Cue]Handle
	logger  zerolog.Logger
}

// NewManager creates a manager over player. A nil player falls back to NopPlayer.
func NewManager(player Player, logger *zerolog.Logger) *Manager {
	if player == nil {
		player = NopPlayer{}
	}
	manager := &Manager{
		player:  player,
		handles: make(map[model.Cue]Handle),
	}
	if logger != nil {
		manager.logger = *logger
	} else {
		manager.logger = xlog.WithComponent("audio")
	}
	return manager
}

// Play starts cue from position zero, restarting it if it is already playing.
func (manager *Manager) Play(cue model.Cue) error {
	return manager.start(cue, false)
}

// Loop starts cue from position zero and keeps repeating it until stopped.
func (manager *Manager) Loop(cue model.Cue) error {
	return manager.start(cue, true)
}

func (manager *Manager) start(cue model.Cue, loop bool) error {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	handle, err := manager.handleLocked(cue)
	if err != nil {
		return manager.failLocked(cue, err)
	}
	if handle.Playing() {
		handle.Pause()
	}
	handle.Rewind()
	handle.SetLoop(loop)
	if err := handle.Play(); err != nil {
		return manager.failLocked(cue, err)
	}
	metrics.CuePlaysTotal.WithLabelValues(cue.String()).Inc()
	manager.logger.Debug().Str("event", "cue.play").Stringer("cue", cue).Bool("loop", loop).Msg("cue started")
	return nil
}

func (manager *Manager) handleLocked(cue model.Cue) (Handle, error) {
	if handle, ok := manager.handles[cue]; ok {
		return handle, nil
	}
	handle, err := manager.player.Open(cue)
	if err != nil {
		return nil, err
	}
	manager.handles[cue] = handle
	return handle, nil
}

func (manager *Manager) failLocked(cue model.Cue, cause error) error {
	metrics.CueFailuresTotal.WithLabelValues(cue.String()).Inc()
	manager.logger.Warn().Err(cause).Str("event", "cue.failed").Stringer("cue", cue).Msg("cue playback failed")
	return fmt.Errorf("%w: %s: %v", ErrAudioUnavailable, cue, cause)
}

// Stop pauses cue and rewinds it. Stopping an idle cue is a no-op.
func (manager *Manager) Stop(cue model.Cue) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	handle, ok := manager.handles[cue]
	if !ok || !handle.Playing() {
		return
	}
	handle.Pause()
	handle.Rewind()
}

// StopAll stops and releases every handle. It returns the number of handles released.
func (manager *Manager) StopAll() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	released := 0
	for cue, handle := range manager.handles {
		handle.Pause()
		handle.Rewind()
		if err := handle.Close(); err != nil {
			manager.logger.Warn().Err(err).Str("event", "cue.close_failed").Stringer("cue", cue).Msg("cue handle close failed")
		}
		delete(manager.handles, cue)
		released++
	}
	return released
}

// Playing reports whether cue is currently playing.
func (manager *Manager) Playing(cue model.Cue) bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	handle, ok := manager.handles[cue]
	return ok && handle.Playing()
}

// Active returns the playing cues in declaration order.
func (manager *Manager) Active() []model.Cue {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	var active []model.Cue
	for _, cue := range model.Cues {
		if handle, ok := manager.handles[cue]; ok && handle.Playing() {
			active = append(active, cue)
		}
	}
	return active
}

// Handles returns the number of live handles.
func (manager *Manager) Handles() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.handles)
}
