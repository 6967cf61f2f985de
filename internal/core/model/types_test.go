package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("manual")
	require.NoError(t, err)
	assert.Equal(t, ModeManual, mode)

	_, err = ParseMode("sometimes")
	assert.Error(t, err)

	var decoded NotificationMode
	require.NoError(t, decoded.UnmarshalText([]byte("auto")))
	assert.Equal(t, ModeAuto, decoded)
}

func TestParseViewRoundTripsNames(t *testing.T) {
	for _, view := range Views {
		parsed, err := ParseView(view.String())
		require.NoError(t, err)
		assert.Equal(t, view, parsed)
	}
	_, err := ParseView("camera")
	assert.Error(t, err)
}

func TestPowerStatePowered(t *testing.T) {
	assert.False(t, PowerOff.Powered())
	assert.True(t, PowerOn.Powered())
	assert.True(t, PowerTransientCharging.Powered())
}

func TestClampLevel(t *testing.T) {
	assert.Equal(t, 0, ClampLevel(-4))
	assert.Equal(t, 55, ClampLevel(55))
	assert.Equal(t, 100, ClampLevel(130))
}

func TestNormalizeFillsDefaults(t *testing.T) {
	config := EngineConfig{AutoInterval: time.Minute, SystemMessageProbability: 2}.Normalize()

	assert.Equal(t, time.Minute, config.AutoInterval)
	assert.Equal(t, time.Second, config.TickInterval)
	assert.Equal(t, 2*time.Second, config.TransientChargingWindow)
	assert.Equal(t, 0.3, config.SystemMessageProbability)
	assert.Equal(t, 500*time.Millisecond, config.VibrateDuration)
}
