package platform

import (
	"wristsim/internal/core/battery"
	"wristsim/internal/core/model"
)

// NewBatterySource returns the host battery reader. Hosts without a readable
// battery return a source that always reports battery.ErrSourceUnavailable.
func NewBatterySource() battery.Source {
	return newBatterySource()
}

type unsupportedBatterySource struct{}

func (unsupportedBatterySource) Status() (model.BatteryStatus, error) {
	return model.BatteryStatus{}, battery.ErrSourceUnavailable
}
