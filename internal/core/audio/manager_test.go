package audio

import (
	"bytes"
	"errors"
	"testing"

	"wristsim/internal/core/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(player Player) *Manager {
	logger := zerolog.Nop()
	return NewManager(player, &logger)
}

func TestPlayCreatesHandleLazilyAndRestarts(t *testing.T) {
	recorder := NewRecordingPlayer()
	manager := newTestManager(recorder)

	assert.Zero(t, manager.Handles())

	require.NoError(t, manager.Play(model.CueAlarm))
	require.NoError(t, manager.Play(model.CueAlarm))

	assert.Equal(t, 1, recorder.Opens(model.CueAlarm), "replay must reuse the handle")
	assert.Equal(t, 2, recorder.Plays(model.CueAlarm))
	assert.Equal(t, 1, manager.Handles())
	assert.True(t, manager.Playing(model.CueAlarm))
}

func TestStopIsNoOpWhenIdle(t *testing.T) {
	manager := newTestManager(NewRecordingPlayer())

	manager.Stop(model.CueBeep)
	assert.False(t, manager.Playing(model.CueBeep))

	require.NoError(t, manager.Play(model.CueBeep))
	manager.Stop(model.CueBeep)
	manager.Stop(model.CueBeep)
	assert.False(t, manager.Playing(model.CueBeep))
	assert.Equal(t, 1, manager.Handles(), "stop keeps the handle for reuse")
}

func TestStopAllReleasesEveryHandle(t *testing.T) {
	recorder := NewRecordingPlayer()
	manager := newTestManager(recorder)

	require.NoError(t, manager.Play(model.CueNotify))
	require.NoError(t, manager.Loop(model.CueHeartbeat))
	require.NoError(t, manager.Play(model.CueCharge))
	manager.Stop(model.CueCharge)

	assert.Equal(t, []model.Cue{model.CueHeartbeat, model.CueNotify}, manager.Active())
	assert.Equal(t, 3, manager.StopAll())
	assert.Zero(t, manager.Handles())
	assert.Empty(t, manager.Active())
	assert.Equal(t, 1, recorder.Closes(model.CueHeartbeat))
	assert.Zero(t, manager.StopAll())

	require.NoError(t, manager.Play(model.CueNotify))
	assert.Equal(t, 2, recorder.Opens(model.CueNotify), "handles are recreated after release")
}

func TestPlayFailureIsReported(t *testing.T) {
	recorder := NewRecordingPlayer()
	recorder.Fail = map[model.Cue]error{model.CueAlarm: errors.New("no device")}
	manager := newTestManager(recorder)

	err := manager.Play(model.CueAlarm)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAudioUnavailable)
	assert.Zero(t, manager.Handles())

	require.NoError(t, manager.Play(model.CueBeep))
}

func TestLogPlayerWritesTransitions(t *testing.T) {
	var buffer bytes.Buffer
	manager := newTestManager(LogPlayer{Logger: zerolog.New(&buffer).Level(zerolog.DebugLevel)})

	require.NoError(t, manager.Loop(model.CueHeartbeat))
	manager.Stop(model.CueHeartbeat)
	manager.Stop(model.CueHeartbeat)

	output := buffer.String()
	assert.Contains(t, output, `"event":"sink.play"`)
	assert.Contains(t, output, `"cue":"heartbeat"`)
	assert.Contains(t, output, `"loop":true`)
	assert.Equal(t, 1, bytes.Count(buffer.Bytes(), []byte(`"event":"sink.stop"`)))
}
