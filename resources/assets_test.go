package resources

import (
	"testing"

	"wristsim/internal/core/model"

	"github.com/stretchr/testify/assert"
)

func TestTrayIconReflectsState(t *testing.T) {
	off := TrayIcon(model.Snapshot{Power: model.PowerOff, Battery: model.BatteryStatus{LevelPercent: 85}})
	assert.Contains(t, string(off.Content()), `fill="#6b6b6b"`)
	assert.NotContains(t, string(off.Content()), "#eb5757")

	busy := TrayIcon(model.Snapshot{
		Power:       model.PowerOn,
		Battery:     model.BatteryStatus{LevelPercent: 15, Charging: true},
		UnreadCount: 2,
	})
	content := string(busy.Content())
	assert.Contains(t, content, `stroke="#eb5757"`)
	assert.Contains(t, content, "#f2c94c")
	assert.Contains(t, content, `<circle cx="50"`)
}

func TestTrayIconCachesByBucket(t *testing.T) {
	first := TrayIcon(model.Snapshot{Power: model.PowerOn, Battery: model.BatteryStatus{LevelPercent: 71}})
	second := TrayIcon(model.Snapshot{Power: model.PowerOn, Battery: model.BatteryStatus{LevelPercent: 79}})
	assert.Same(t, first, second)
	assert.Equal(t, first.Name(), second.Name())

	other := TrayIcon(model.Snapshot{Power: model.PowerOn, Battery: model.BatteryStatus{LevelPercent: 80}})
	assert.NotEqual(t, first.Name(), other.Name())
	assert.NotNil(t, AppIcon())
}
