package preferences

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wristsim/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	calls     []string
	alarm     [2]int
	mode      model.NotificationMode
	wallpaper []byte
	failDark  error
}

func (target *recordingTarget) SetAlarm(hour, minute int) error {
	target.calls = append(target.calls, "alarm")
	target.alarm = [2]int{hour, minute}
	return nil
}

func (target *recordingTarget) CancelAlarm() {
	target.calls = append(target.calls, "cancel")
}

func (target *recordingTarget) SetNotificationMode(mode model.NotificationMode) error {
	target.calls = append(target.calls, "mode")
	target.mode = mode
	return nil
}

func (target *recordingTarget) SetDarkMode(bool) error {
	target.calls = append(target.calls, "dark")
	return target.failDark
}

func (target *recordingTarget) SetBrightness(int) error {
	target.calls = append(target.calls, "brightness")
	return nil
}

func (target *recordingTarget) SetWallpaper(image []byte) error {
	target.calls = append(target.calls, "wallpaper")
	target.wallpaper = image
	return nil
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock(" 07:05 ")
	require.NoError(t, err)
	assert.Equal(t, 7, hour)
	assert.Equal(t, 5, minute)

	for _, value := range []string{"", "7", "24:00", "12:60", "ab:10", "-1:10"} {
		_, _, err := ParseClock(value)
		assert.Error(t, err, value)
	}
	assert.Equal(t, "23:59", FormatClock(23, 59))
}

func TestFromSnapshot(t *testing.T) {
	settings := FromSnapshot(model.Snapshot{
		Alarm:            model.Alarm{Hour: 6, Minute: 45, Armed: true},
		NotificationMode: model.ModeManual,
		DarkMode:         true,
		Brightness:       55,
	})
	assert.Equal(t, Settings{
		AlarmEnabled:     true,
		AlarmHour:        6,
		AlarmMinute:      45,
		NotificationMode: model.ModeManual,
		DarkMode:         true,
		Brightness:       55,
	}, settings)
}

func TestApplyOnlyPushesChanges(t *testing.T) {
	target := &recordingTarget{}
	before := Settings{Brightness: 80}

	require.NoError(t, Apply(target, before, before))
	assert.Empty(t, target.calls)

	after := before
	after.AlarmEnabled = true
	after.AlarmHour = 7
	after.AlarmMinute = 30
	after.NotificationMode = model.ModeManual
	require.NoError(t, Apply(target, before, after))
	assert.Equal(t, []string{"alarm", "mode"}, target.calls)
	assert.Equal(t, [2]int{7, 30}, target.alarm)
	assert.Equal(t, model.ModeManual, target.mode)

	target.calls = nil
	disabled := after
	disabled.AlarmEnabled = false
	require.NoError(t, Apply(target, after, disabled))
	assert.Equal(t, []string{"cancel"}, target.calls)
}

func TestApplyReadsWallpaperAndCollectsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))

	failure := errors.New("disk full")
	target := &recordingTarget{failDark: failure}
	before := Settings{Brightness: 80}
	after := before
	after.DarkMode = true
	after.Brightness = 40
	after.WallpaperPath = path

	err := Apply(target, before, after)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, []string{"dark", "brightness", "wallpaper"}, target.calls)
	assert.Equal(t, []byte("png"), target.wallpaper)

	missing := before
	missing.WallpaperPath = filepath.Join(t.TempDir(), "missing.png")
	assert.Error(t, Apply(&recordingTarget{}, before, missing))
}
