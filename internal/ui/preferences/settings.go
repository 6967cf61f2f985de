package preferences

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"wristsim/internal/core/model"
)

// Settings defines the user preferences editable from the window.
type Settings struct {
	AlarmEnabled bool
	AlarmHour    int
	AlarmMinute  int

	NotificationMode model.NotificationMode
	DarkMode         bool
	Brightness       int
	WallpaperPath    string
}

// Target is the subset of the watch engine the preferences window drives.
type Target interface {
	SetAlarm(hour, minute int) error
	CancelAlarm()
	SetNotificationMode(mode model.NotificationMode) error
	SetDarkMode(enabled bool) error
	SetBrightness(percent int) error
	SetWallpaper(image []byte) error
}

// FromSnapshot extracts current settings from an engine snapshot.
func FromSnapshot(snapshot model.Snapshot) Settings {
	return Settings{
		AlarmEnabled:     snapshot.Alarm.Armed,
		AlarmHour:        snapshot.Alarm.Hour,
		AlarmMinute:      snapshot.Alarm.Minute,
		NotificationMode: snapshot.NotificationMode,
		DarkMode:         snapshot.DarkMode,
		Brightness:       snapshot.Brightness,
	}
}

// FormatClock renders hour and minute as HH:MM.
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ParseClock parses an HH:MM wall-clock time.
func ParseClock(value string) (int, int, error) {
	hourText, minuteText, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return 0, 0, fmt.Errorf("alarm time %q: want HH:MM", value)
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("alarm hour %q out of range", hourText)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("alarm minute %q out of range", minuteText)
	}
	return hour, minute, nil
}

// Apply pushes every field that differs between before and after to target.
// Failures are collected so one bad field does not block the rest.
func Apply(target Target, before, after Settings) error {
	var errs []error

	alarmChanged := after.AlarmEnabled != before.AlarmEnabled ||
		after.AlarmHour != before.AlarmHour ||
		after.AlarmMinute != before.AlarmMinute
	if alarmChanged {
		if after.AlarmEnabled {
			if err := target.SetAlarm(after.AlarmHour, after.AlarmMinute); err != nil {
				errs = append(errs, fmt.Errorf("set alarm: %w", err))
			}
		} else {
			target.CancelAlarm()
		}
	}

	if after.NotificationMode != before.NotificationMode {
		if err := target.SetNotificationMode(after.NotificationMode); err != nil {
			errs = append(errs, fmt.Errorf("notification mode: %w", err))
		}
	}
	if after.DarkMode != before.DarkMode {
		if err := target.SetDarkMode(after.DarkMode); err != nil {
			errs = append(errs, fmt.Errorf("dark mode: %w", err))
		}
	}
	if after.Brightness != before.Brightness {
		if err := target.SetBrightness(after.Brightness); err != nil {
			errs = append(errs, fmt.Errorf("brightness: %w", err))
		}
	}
	if after.WallpaperPath != "" && after.WallpaperPath != before.WallpaperPath {
		image, err := os.ReadFile(after.WallpaperPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("read wallpaper: %w", err))
		} else if err := target.SetWallpaper(image); err != nil {
			errs = append(errs, fmt.Errorf("wallpaper: %w", err))
		}
	}

	return errors.Join(errs...)
}
