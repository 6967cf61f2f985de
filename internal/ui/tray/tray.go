package tray

import (
	"fmt"
	"strings"

	"wristsim/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences   func()
	OnTogglePower   func()
	OnNavigate      func(model.DeviceView)
	OnStopwatch     func()
	OnLap           func()
	OnResetWatch    func()
	OnMarkAllRead   func()
	OnClearMessages func()
	OnMode          func(model.NotificationMode)
	OnToggleCharger func()
	OnQuit          func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	powerItem   *fyne.MenuItem
	screenItem  *fyne.MenuItem
	watchItem   *fyne.MenuItem
	startItem   *fyne.MenuItem
	messageItem *fyne.MenuItem
	modeItems   map[model.NotificationMode]*fyne.MenuItem
	chargeItem  *fyne.MenuItem
	callbacks   Callbacks
	snapshot    model.Snapshot
}

// New creates a tray manager with the provided callbacks. A nil app builds
// the menu without installing it.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		modeItems: make(map[model.NotificationMode]*fyne.MenuItem),
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.powerItem = fyne.NewMenuItem("Power on", func() {
		if manager.callbacks.OnTogglePower != nil {
			manager.callbacks.OnTogglePower()
		}
	})

	var screens []*fyne.MenuItem
	for _, view := range model.Views {
		view := view
		screens = append(screens, fyne.NewMenuItem(viewLabel(view), func() {
			if manager.callbacks.OnNavigate != nil {
				manager.callbacks.OnNavigate(view)
			}
		}))
	}
	manager.screenItem = fyne.NewMenuItem("Screen", nil)
	manager.screenItem.ChildMenu = fyne.NewMenu("", screens...)

	manager.startItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnStopwatch != nil {
			manager.callbacks.OnStopwatch()
		}
	})
	manager.watchItem = fyne.NewMenuItem("Stopwatch", nil)
	manager.watchItem.ChildMenu = fyne.NewMenu("",
		manager.startItem,
		fyne.NewMenuItem("Lap", func() {
			if manager.callbacks.OnLap != nil {
				manager.callbacks.OnLap()
			}
		}),
		fyne.NewMenuItem("Reset", func() {
			if manager.callbacks.OnResetWatch != nil {
				manager.callbacks.OnResetWatch()
			}
		}),
	)

	for _, mode := range []model.NotificationMode{model.ModeAuto, model.ModeManual} {
		mode := mode
		manager.modeItems[mode] = fyne.NewMenuItem(modeLabel(mode), func() {
			if manager.callbacks.OnMode != nil {
				manager.callbacks.OnMode(mode)
			}
		})
	}
	manager.messageItem = fyne.NewMenuItem("Notifications", nil)
	manager.messageItem.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Mark all read", func() {
			if manager.callbacks.OnMarkAllRead != nil {
				manager.callbacks.OnMarkAllRead()
			}
		}),
		fyne.NewMenuItem("Clear all", func() {
			if manager.callbacks.OnClearMessages != nil {
				manager.callbacks.OnClearMessages()
			}
		}),
		fyne.NewMenuItemSeparator(),
		manager.modeItems[model.ModeAuto],
		manager.modeItems[model.ModeManual],
	)

	manager.chargeItem = fyne.NewMenuItem("Plug in charger", func() {
		if manager.callbacks.OnToggleCharger != nil {
			manager.callbacks.OnToggleCharger()
		}
	})

	manager.Update(model.Snapshot{})
	return manager
}

// Update refreshes every label from snapshot.
func (manager *Manager) Update(snapshot model.Snapshot) {
	manager.snapshot = snapshot
	manager.statusItem.Label = "Status: " + StatusLine(snapshot)

	if snapshot.Power.Powered() {
		manager.powerItem.Label = "Power off"
	} else {
		manager.powerItem.Label = "Power on"
	}
	manager.screenItem.Disabled = !snapshot.Power.Powered()

	if snapshot.Stopwatch.Running {
		manager.startItem.Label = "Stop"
	} else {
		manager.startItem.Label = "Start"
	}

	for mode, item := range manager.modeItems {
		item.Checked = mode == snapshot.NotificationMode
	}
	manager.messageItem.Label = fmt.Sprintf("Notifications (%d unread)", snapshot.UnreadCount)

	if snapshot.Battery.Charging {
		manager.chargeItem.Label = "Unplug charger"
	} else {
		manager.chargeItem.Label = "Plug in charger"
	}
	manager.refreshMenu()
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu("WristSim",
		manager.statusItem,
		manager.powerItem,
		manager.screenItem,
		manager.watchItem,
		manager.messageItem,
		manager.chargeItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

// StatusLine summarizes a snapshot in one short line.
func StatusLine(snapshot model.Snapshot) string {
	parts := []string{snapshot.Power.String()}
	battery := fmt.Sprintf("%d%%", snapshot.Battery.LevelPercent)
	if snapshot.Battery.Charging {
		battery += " charging"
	}
	parts = append(parts, battery)
	if snapshot.Power.Powered() {
		parts = append(parts, viewLabel(snapshot.View))
	}
	if snapshot.Alarm.Armed {
		parts = append(parts, fmt.Sprintf("alarm %02d:%02d", snapshot.Alarm.Hour, snapshot.Alarm.Minute))
	}
	return strings.Join(parts, " | ")
}

func viewLabel(view model.DeviceView) string {
	switch view {
	case model.ViewHome:
		return "Home"
	case model.ViewSettings:
		return "Settings"
	case model.ViewAlarm:
		return "Alarm"
	case model.ViewMusic:
		return "Music"
	case model.ViewHeartRate:
		return "Heart rate"
	case model.ViewMessages:
		return "Messages"
	case model.ViewAppDrawer:
		return "Apps"
	default:
		return view.String()
	}
}

func modeLabel(mode model.NotificationMode) string {
	if mode == model.ModeManual {
		return "Manual notifications"
	}
	return "Automatic notifications"
}
