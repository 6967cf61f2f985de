//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wristsim/internal/core/battery"
	"wristsim/internal/core/model"
)

const powerSupplyDir = "/sys/class/power_supply"

type sysfsBatterySource struct {
	batteryDir string
}

func newBatterySource() battery.Source {
	return newSysfsBatterySource(powerSupplyDir)
}

func newSysfsBatterySource(root string) battery.Source {
	matches, err := filepath.Glob(filepath.Join(root, "BAT*"))
	if err != nil || len(matches) == 0 {
		return unsupportedBatterySource{}
	}
	return &sysfsBatterySource{batteryDir: matches[0]}
}

func (source *sysfsBatterySource) Status() (model.BatteryStatus, error) {
	capacity, err := readTrimmed(filepath.Join(source.batteryDir, "capacity"))
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("read battery capacity: %w", err)
	}
	level, err := strconv.Atoi(capacity)
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("parse battery capacity: %w", err)
	}
	status, err := readTrimmed(filepath.Join(source.batteryDir, "status"))
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("read battery status: %w", err)
	}

	return model.BatteryStatus{
		LevelPercent: model.ClampLevel(level),
		Charging:     strings.EqualFold(status, "Charging") || strings.EqualFold(status, "Full"),
	}, nil
}

func readTrimmed(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
