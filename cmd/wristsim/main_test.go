package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wristsim/internal/config"
	"wristsim/internal/core/clock"
	"wristsim/internal/core/model"
	"wristsim/internal/core/watch"
	"wristsim/internal/ui/popup"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigHandsReloadedVibrationToShell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  vibrate_ms: 300\n"), 0o600))
	initial, err := config.Load(path)
	require.NoError(t, err)

	logger := zerolog.Nop()
	engine := watch.New(watch.Options{
		Config: initial.Engine,
		Clock:  clock.NewManual(time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC)),
		Logger: &logger,
	})
	t.Cleanup(func() { _ = engine.Close() })

	holder := config.NewHolder(initial, path)
	applied := make(chan popup.Config, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchConfig(ctx, holder, engine, logger, func(updated config.Config) {
			select {
			case applied <- popupConfig(engine.Snapshot(), updated.Engine):
			default:
			}
		})
	}()

	require.NoError(t, os.WriteFile(path, []byte("engine:\n  vibrate_ms: 900\n"), 0o600))
	var current popup.Config
	require.Eventually(t, func() bool {
		if holder.Reload() != nil {
			return false
		}
		select {
		case current = <-applied:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "reloaded configuration never reached the shell")
	assert.Equal(t, 900*time.Millisecond, current.VibrateFor)
	assert.Equal(t, 80, current.Brightness)
	assert.Equal(t, 900*time.Millisecond, holder.Get().Engine.VibrateDuration)

	cancel()
	require.NoError(t, <-done)
}

func TestPopupConfigUsesSnapshotDisplay(t *testing.T) {
	engineConfig := model.DefaultEngineConfig()
	engineConfig.VibrateDuration = 750 * time.Millisecond

	got := popupConfig(model.Snapshot{Brightness: 35, DarkMode: true}, engineConfig)
	assert.Equal(t, 35, got.Brightness)
	assert.True(t, got.DarkMode)
	assert.Equal(t, 750*time.Millisecond, got.VibrateFor)
}
