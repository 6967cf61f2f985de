package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 5, 2, 18, 0, 0, 0, time.UTC)

func at(offset time.Duration) time.Time {
	return t0.Add(offset)
}

func TestStartStopResumeContinues(t *testing.T) {
	watch := New()
	watch.Start(at(0))
	assert.Equal(t, 1500*time.Millisecond, watch.Elapsed(at(1500*time.Millisecond)))

	lap, ok := watch.RecordLap(at(2 * time.Second))
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, lap.Elapsed)

	watch.Stop(at(3 * time.Second))
	assert.Equal(t, 3*time.Second, watch.Elapsed(at(10*time.Second)), "frozen while stopped")

	watch.Start(at(10 * time.Second))
	assert.Equal(t, 3*time.Second, watch.Elapsed(at(10*time.Second)), "no jump on resume")
	assert.Equal(t, 5*time.Second, watch.Elapsed(at(12*time.Second)))
}

func TestStartWhileRunningIsNoOp(t *testing.T) {
	watch := New()
	watch.Start(at(0))
	watch.Start(at(5 * time.Second))
	assert.Equal(t, 6*time.Second, watch.Elapsed(at(6*time.Second)))
}

func TestLapIDsAreSequentialAcrossDeletes(t *testing.T) {
	watch := New()
	watch.Start(at(0))

	var ids []uint64
	for i := 1; i <= 5; i++ {
		lap, ok := watch.RecordLap(at(time.Duration(i) * time.Second))
		require.True(t, ok)
		ids = append(ids, lap.ID)
		if i == 2 {
			assert.True(t, watch.DeleteLap(lap.ID))
			assert.False(t, watch.DeleteLap(lap.ID), "deleting twice is harmless")
		}
	}
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, ids)

	state := watch.State(at(6 * time.Second))
	require.Len(t, state.Laps, 4)
	assert.Equal(t, uint64(3), state.Laps[1].ID)
}

func TestResetStartsNewSession(t *testing.T) {
	watch := New()
	watch.Start(at(0))
	watch.RecordLap(at(time.Second))
	watch.RecordLap(at(2 * time.Second))

	watch.Reset(at(3 * time.Second))
	state := watch.State(at(4 * time.Second))
	assert.False(t, state.Running)
	assert.Zero(t, state.Elapsed)
	assert.Empty(t, state.Laps)
	assert.Nil(t, state.StartedAt)

	watch.Start(at(5 * time.Second))
	lap, ok := watch.RecordLap(at(6 * time.Second))
	require.True(t, ok)
	assert.Equal(t, uint64(1), lap.ID)
	assert.Equal(t, time.Second, lap.Elapsed)
}

func TestRecordLapWhenStoppedIsIgnored(t *testing.T) {
	watch := New()
	_, ok := watch.RecordLap(at(time.Second))
	assert.False(t, ok)
	assert.Empty(t, watch.State(at(time.Second)).Laps)
}

func TestElapsedNeverDecreasesWhileRunning(t *testing.T) {
	watch := New()
	watch.Start(at(0))
	assert.Equal(t, 4*time.Second, watch.Elapsed(at(4*time.Second)))
	assert.Equal(t, 4*time.Second, watch.Elapsed(at(2*time.Second)), "clock stepped back")
	assert.Equal(t, 5*time.Second, watch.Elapsed(at(5*time.Second)))
}
