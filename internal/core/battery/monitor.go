package battery

import (
	"errors"

	"wristsim/internal/core/model"

	"github.com/rs/zerolog"
)

// Transition describes a change of the charging flag.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionConnected
	TransitionDisconnected
)

func (transition Transition) String() string {
	switch transition {
	case TransitionConnected:
		return "connected"
	case TransitionDisconnected:
		return "disconnected"
	default:
		return "none"
	}
}

// Monitor polls a Source and detects charger transitions. When the source is
// unavailable it switches to the simulated fallback for the rest of its life.
type Monitor struct {
	source    Source
	fallback  *Simulated
	simulated bool
	last      model.BatteryStatus
	known     bool
	logger    zerolog.Logger
}

// NewMonitor wraps source. A nil source starts directly on the fallback.
func NewMonitor(source Source, fallback *Simulated, logger zerolog.Logger) *Monitor {
	monitor := &Monitor{
		source:   source,
		fallback: fallback,
		logger:   logger,
	}
	if source == nil {
		monitor.source = fallback
		monitor.simulated = true
	}
	if sim, ok := monitor.source.(*Simulated); ok && sim == fallback {
		monitor.simulated = true
	}
	return monitor
}

// Poll reads the source once. The first successful read only establishes the
// baseline; later reads report a transition whenever the charging flag flips.
func (monitor *Monitor) Poll() (model.BatteryStatus, Transition) {
	status, err := monitor.source.Status()
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) && !monitor.simulated {
			monitor.logger.Warn().Err(err).Str("event", "battery.fallback").Msg("battery source unavailable, using simulated battery")
			monitor.source = monitor.fallback
			monitor.simulated = true
			status, err = monitor.source.Status()
		}
		if err != nil {
			monitor.logger.Warn().Err(err).Str("event", "battery.read_failed").Msg("battery read failed")
			return monitor.last, TransitionNone
		}
	}

	status.LevelPercent = model.ClampLevel(status.LevelPercent)
	previous := monitor.last
	known := monitor.known
	monitor.last = status
	monitor.known = true

	if !known || previous.Charging == status.Charging {
		return status, TransitionNone
	}
	if status.Charging {
		return status, TransitionConnected
	}
	return status, TransitionDisconnected
}

// Last returns the most recent status without polling.
func (monitor *Monitor) Last() model.BatteryStatus {
	return monitor.last
}

// Simulated reports whether the monitor reads the simulated source.
func (monitor *Monitor) Simulated() bool {
	return monitor.simulated
}

// Fallback returns the simulated source used when the host has none.
func (monitor *Monitor) Fallback() *Simulated {
	return monitor.fallback
}
