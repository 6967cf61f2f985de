package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"wristsim/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     func(before, after Settings)
	alarmTime  *widget.Entry
	alarmCheck *widget.Check
	manual     *widget.Check
	darkMode   *widget.Check
	brightness *widget.Slider
	wallpaper  *widget.Entry
	status     *widget.Label
}

// New creates a preferences window. onSave receives the settings before and
// after editing.
func New(app fyne.App, settings Settings, onSave func(before, after Settings)) *Window {
	window := app.NewWindow("WristSim Settings")

	alarmTime := widget.NewEntry()
	alarmTime.SetPlaceHolder("07:30")
	alarmCheck := widget.NewCheck("Alarm enabled", nil)
	manual := widget.NewCheck("Manual notifications only", nil)
	darkMode := widget.NewCheck("Dark mode", nil)
	brightness := widget.NewSlider(0, 100)
	brightness.Step = 1
	wallpaper := widget.NewEntry()
	wallpaper.SetPlaceHolder("/path/to/image.png")
	status := widget.NewLabel("")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Alarm", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Wake at"), alarmTime),
		alarmCheck,
		widget.NewLabelWithStyle("Display", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		darkMode,
		widget.NewLabel("Brightness"),
		brightness,
		widget.NewLabel("Wallpaper file"),
		wallpaper,
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		manual,
		status,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 440))

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		alarmTime:  alarmTime,
		alarmCheck: alarmCheck,
		manual:     manual,
		darkMode:   darkMode,
		brightness: brightness,
		wallpaper:  wallpaper,
		status:     status,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.status.SetText("")
		window.Hide()
	}
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.alarmTime.SetText(FormatClock(settings.AlarmHour, settings.AlarmMinute))
	prefs.alarmCheck.SetChecked(settings.AlarmEnabled)
	prefs.manual.SetChecked(settings.NotificationMode == model.ModeManual)
	prefs.darkMode.SetChecked(settings.DarkMode)
	prefs.brightness.Value = float64(settings.Brightness)
	prefs.brightness.Refresh()
	prefs.wallpaper.SetText(settings.WallpaperPath)
}

func (prefs *Window) handleSave() {
	before := prefs.settings
	after := before

	after.AlarmEnabled = prefs.alarmCheck.Checked
	if after.AlarmEnabled {
		hour, minute, err := ParseClock(prefs.alarmTime.Text)
		if err != nil {
			prefs.status.SetText(err.Error())
			return
		}
		after.AlarmHour, after.AlarmMinute = hour, minute
	}

	after.NotificationMode = model.ModeAuto
	if prefs.manual.Checked {
		after.NotificationMode = model.ModeManual
	}
	after.DarkMode = prefs.darkMode.Checked
	after.Brightness = int(prefs.brightness.Value)
	after.WallpaperPath = prefs.wallpaper.Text

	prefs.settings = after
	prefs.status.SetText("")
	if prefs.onSave != nil {
		prefs.onSave(before, after)
	}
	prefs.window.Hide()
}
