package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestResolveLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, zerolog.DebugLevel, resolveLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, resolveLevel("shouting"))
	assert.Equal(t, zerolog.InfoLevel, resolveLevel(""))

	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, zerolog.WarnLevel, resolveLevel(""))
	assert.Equal(t, zerolog.ErrorLevel, resolveLevel("error"))
}

func TestSetLevelChangesGlobalLevel(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	SetLevel("error")
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}
