package battery

import (
	"errors"
	"testing"
	"time"

	"wristsim/internal/core/clock"
	"wristsim/internal/core/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type scriptedSource struct {
	statuses []model.BatteryStatus
	errs     []error
	calls    int
}

func (source *scriptedSource) Status() (model.BatteryStatus, error) {
	index := source.calls
	source.calls++
	if index < len(source.errs) && source.errs[index] != nil {
		return model.BatteryStatus{}, source.errs[index]
	}
	if index >= len(source.statuses) {
		index = len(source.statuses) - 1
	}
	return source.statuses[index], nil
}

func TestSimulatedChargesAndDrainsWithinBounds(t *testing.T) {
	manual := clock.NewManual(start)
	sim := NewSimulated(manual, model.BatteryRates{ChargePerSecond: 1, DrainPerSecond: 0.5}, 99)

	status, err := sim.Status()
	require.NoError(t, err)
	assert.Equal(t, 99, status.LevelPercent)

	manual.Add(10 * time.Second)
	status, _ = sim.Status()
	assert.Equal(t, 94, status.LevelPercent)
	assert.False(t, status.Charging)

	sim.SetCharging(true)
	manual.Add(30 * time.Second)
	status, _ = sim.Status()
	assert.Equal(t, 100, status.LevelPercent)
	assert.True(t, status.Charging)

	sim.SetCharging(false)
	manual.Add(time.Hour)
	status, _ = sim.Status()
	assert.Equal(t, 0, status.LevelPercent)
}

func TestMonitorReportsTransitionsAfterBaseline(t *testing.T) {
	source := &scriptedSource{statuses: []model.BatteryStatus{
		{LevelPercent: 50, Charging: true},
		{LevelPercent: 51, Charging: true},
		{LevelPercent: 51, Charging: false},
		{LevelPercent: 150, Charging: true},
	}}
	monitor := NewMonitor(source, NewSimulated(clock.NewManual(start), model.DefaultEngineConfig().Battery, 80), zerolog.Nop())

	_, transition := monitor.Poll()
	assert.Equal(t, TransitionNone, transition, "first read is the baseline")

	_, transition = monitor.Poll()
	assert.Equal(t, TransitionNone, transition)

	_, transition = monitor.Poll()
	assert.Equal(t, TransitionDisconnected, transition)

	status, transition := monitor.Poll()
	assert.Equal(t, TransitionConnected, transition)
	assert.Equal(t, 100, status.LevelPercent, "levels are clamped")
	assert.False(t, monitor.Simulated())
}

func TestMonitorFallsBackWhenSourceUnavailable(t *testing.T) {
	manual := clock.NewManual(start)
	fallback := NewSimulated(manual, model.BatteryRates{ChargePerSecond: 1, DrainPerSecond: 1}, 60)
	source := &scriptedSource{
		statuses: []model.BatteryStatus{{LevelPercent: 10}},
		errs:     []error{ErrSourceUnavailable},
	}
	monitor := NewMonitor(source, fallback, zerolog.Nop())

	status, transition := monitor.Poll()
	assert.Equal(t, TransitionNone, transition)
	assert.Equal(t, 60, status.LevelPercent)
	assert.True(t, monitor.Simulated())

	fallback.SetCharging(true)
	_, transition = monitor.Poll()
	assert.Equal(t, TransitionConnected, transition)
	assert.Equal(t, 1, source.calls, "the host source is abandoned after fallback")
}

func TestMonitorKeepsLastStatusOnTransientError(t *testing.T) {
	source := &scriptedSource{
		statuses: []model.BatteryStatus{{LevelPercent: 70}, {}, {LevelPercent: 69}},
		errs:     []error{nil, errors.New("read failed")},
	}
	monitor := NewMonitor(source, NewSimulated(clock.NewManual(start), model.DefaultEngineConfig().Battery, 100), zerolog.Nop())

	monitor.Poll()
	status, transition := monitor.Poll()
	assert.Equal(t, 70, status.LevelPercent)
	assert.Equal(t, TransitionNone, transition)
	assert.False(t, monitor.Simulated())
	assert.Equal(t, 70, monitor.Last().LevelPercent)

	status, _ = monitor.Poll()
	assert.Equal(t, 69, status.LevelPercent)
	assert.Equal(t, status, monitor.Last())
}

func TestNilSourceUsesSimulation(t *testing.T) {
	monitor := NewMonitor(nil, NewSimulated(clock.NewManual(start), model.DefaultEngineConfig().Battery, 42), zerolog.Nop())
	status, _ := monitor.Poll()
	assert.True(t, monitor.Simulated())
	assert.Equal(t, 42, status.LevelPercent)
}
