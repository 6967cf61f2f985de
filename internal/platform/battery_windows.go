//go:build windows

package platform

import (
	"fmt"
	"unsafe"

	"wristsim/internal/core/battery"
	"wristsim/internal/core/model"

	"golang.org/x/sys/windows"
)

const (
	acLineOnline       = 1
	batteryFlagNone    = 128
	batteryFlagUnknown = 255
	batteryLifeUnknown = 255
)

var procGetSystemPowerStatus = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetSystemPowerStatus")

type systemPowerStatus struct {
	acLineStatus        byte
	batteryFlag         byte
	batteryLifePercent  byte
	systemStatusFlag    byte
	batteryLifeTime     uint32
	batteryFullLifeTime uint32
}

type powerStatusSource struct{}

func newBatterySource() battery.Source {
	return &powerStatusSource{}
}

func (source *powerStatusSource) Status() (model.BatteryStatus, error) {
	var status systemPowerStatus
	if err := procGetSystemPowerStatus.Find(); err != nil {
		return model.BatteryStatus{}, battery.ErrSourceUnavailable
	}
	result, _, err := procGetSystemPowerStatus.Call(uintptr(unsafe.Pointer(&status)))
	if result == 0 {
		if err != nil {
			return model.BatteryStatus{}, fmt.Errorf("get system power status: %w", err)
		}
		return model.BatteryStatus{}, fmt.Errorf("get system power status: unknown error")
	}

	if status.batteryFlag == batteryFlagNone || status.batteryFlag == batteryFlagUnknown ||
		status.batteryLifePercent == batteryLifeUnknown {
		return model.BatteryStatus{}, battery.ErrSourceUnavailable
	}

	return model.BatteryStatus{
		LevelPercent: model.ClampLevel(int(status.batteryLifePercent)),
		Charging:     status.acLineStatus == acLineOnline,
	}, nil
}
