package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestReloadKeepsCurrentOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	holder := NewHolder(Default(), path)

	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))
	require.NoError(t, holder.Reload())
	assert.Equal(t, "warn", holder.Get().LogLevel)

	require.NoError(t, os.WriteFile(path, []byte("log_level: [broken"), 0o644))
	assert.Error(t, holder.Reload())
	assert.Equal(t, "warn", holder.Get().LogLevel)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o644))

	holder := NewHolder(Default(), path)
	updates := make(chan Config, 4)
	holder.RegisterListener(updates)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- holder.Watch(ctx) }()

	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o644); err != nil {
			return false
		}
		select {
		case config := <-updates:
			return config.LogLevel == "debug"
		case <-time.After(2 * reloadDebounce):
			return false
		}
	}, 10*time.Second, 50*time.Millisecond)

	assert.Equal(t, "debug", holder.Get().LogLevel)

	cancel()
	require.NoError(t, <-done)
}
