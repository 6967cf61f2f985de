// Package battery observes a battery source and reports charger transitions.
package battery

import (
	"errors"
	"math"
	"sync"
	"time"

	"wristsim/internal/core/clock"
	"wristsim/internal/core/model"
)

// ErrSourceUnavailable indicates the host cannot report battery status.
var ErrSourceUnavailable = errors.New("battery source unavailable")

// Source reports the current battery status.
type Source interface {
	Status() (model.BatteryStatus, error)
}

// Simulated is a deterministic battery: the level rises while charging and
// decays otherwise, derived from elapsed clock time and clamped to [0,100].
type Simulated struct {
	mu       sync.Mutex
	clock    clock.Clock
	rates    model.BatteryRates
	level    float64
	charging bool
	last     time.Time
}

// NewSimulated returns a simulated battery starting at level percent.
func NewSimulated(clk clock.Clock, rates model.BatteryRates, level float64) *Simulated {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Simulated{
		clock: clk,
		rates: rates,
		level: math.Max(0, math.Min(100, level)),
		last:  clk.Now(),
	}
}

// Status advances the simulation to the current clock time and returns it.
func (sim *Simulated) Status() (model.BatteryStatus, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.advanceLocked()
	return model.BatteryStatus{
		LevelPercent: model.ClampLevel(int(math.Floor(sim.level))),
		Charging:     sim.charging,
	}, nil
}

// SetCharging plugs or unplugs the virtual charger.
func (sim *Simulated) SetCharging(charging bool) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.advanceLocked()
	sim.charging = charging
}

// SetRates changes the charge and drain speeds from now on.
func (sim *Simulated) SetRates(rates model.BatteryRates) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.advanceLocked()
	sim.rates = rates
}

func (sim *Simulated) advanceLocked() {
	now := sim.clock.Now()
	elapsed := now.Sub(sim.last)
	if elapsed <= 0 {
		return
	}
	sim.last = now
	seconds := elapsed.Seconds()
	if sim.charging {
		sim.level = math.Min(100, sim.level+seconds*sim.rates.ChargePerSecond)
		return
	}
	sim.level = math.Max(0, sim.level-seconds*sim.rates.DrainPerSecond)
}

var _ Source = (*Simulated)(nil)
