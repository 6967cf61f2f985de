//go:build !linux && !darwin && !windows

package platform

import "wristsim/internal/core/battery"

func newBatterySource() battery.Source {
	return unsupportedBatterySource{}
}
