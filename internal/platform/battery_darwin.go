//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"wristsim/internal/core/battery"
	"wristsim/internal/core/model"
)

var pmsetPercent = regexp.MustCompile(`(\d+)%;\s*([a-zA-Z ]+);`)

type pmsetBatterySource struct {
	pmsetPath string
}

func newBatterySource() battery.Source {
	path, err := exec.LookPath("pmset")
	if err != nil {
		return unsupportedBatterySource{}
	}
	return &pmsetBatterySource{pmsetPath: path}
}

func (source *pmsetBatterySource) Status() (model.BatteryStatus, error) {
	output, err := exec.Command(source.pmsetPath, "-g", "batt").Output()
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("pmset: %w", err)
	}
	return parsePmset(string(output))
}

func parsePmset(output string) (model.BatteryStatus, error) {
	match := pmsetPercent.FindStringSubmatch(output)
	if match == nil {
		// Desktops report AC power without an internal battery.
		return model.BatteryStatus{}, battery.ErrSourceUnavailable
	}
	level, err := strconv.Atoi(match[1])
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("parse pmset level: %w", err)
	}
	state := strings.ToLower(strings.TrimSpace(match[2]))
	return model.BatteryStatus{
		LevelPercent: model.ClampLevel(level),
		Charging:     state == "charging" || state == "charged" || state == "finishing charge",
	}, nil
}
