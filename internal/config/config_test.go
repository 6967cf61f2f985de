package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"wristsim/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
}

func TestLoadAppliesValidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	content := `
log_level: debug
metrics_addr: 127.0.0.1:9110
cue_sink: none
storage:
  backend: sqlite
  dir: /tmp/wrist
battery:
  source: simulated
  initial_level: 40
engine:
  tick_ms: 250
  auto_interval_seconds: 60
  system_message_probability: 0
  popup_seconds: 5
  seed: 42
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "127.0.0.1:9110", config.MetricsAddr)
	assert.Equal(t, CueSinkNone, config.CueSink)
	assert.Equal(t, StorageConfig{Backend: "sqlite", Dir: "/tmp/wrist"}, config.Storage)
	assert.Equal(t, BatteryConfig{Source: BatterySimulated, InitialLevel: 40}, config.Battery)
	assert.Equal(t, 250*time.Millisecond, config.Engine.TickInterval)
	assert.Equal(t, time.Minute, config.Engine.AutoInterval)
	assert.Zero(t, config.Engine.SystemMessageProbability)
	assert.Equal(t, 5*time.Second, config.Engine.PopupDuration)
	assert.Equal(t, 5*time.Second, config.Engine.NotifySoundDuration)
	assert.Equal(t, int64(42), config.Engine.Seed)
}

func TestLoadIgnoresOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	content := `
battery:
  source: plutonium
  initial_level: 140
engine:
  tick_ms: 1
  system_message_probability: 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := Load(path)
	require.NoError(t, err)
	defaults := model.DefaultEngineConfig()
	assert.Equal(t, BatteryAuto, config.Battery.Source)
	assert.Equal(t, 85, config.Battery.InitialLevel)
	assert.Equal(t, defaults.TickInterval, config.Engine.TickInterval)
	assert.Equal(t, defaults.SystemMessageProbability, config.Engine.SystemMessageProbability)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte("engine: [oops"), 0o644))

	config, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), config)
}
