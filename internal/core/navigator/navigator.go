// Package navigator tracks which watch screen is showing.
package navigator

import "wristsim/internal/core/model"

// Navigator is a finite set of named screens; every transition is legal.
type Navigator struct {
	view model.DeviceView
}

// New returns a navigator on the home screen.
func New() *Navigator {
	return &Navigator{view: model.ViewHome}
}

// Navigate switches to view and returns the previous screen.
func (nav *Navigator) Navigate(view model.DeviceView) model.DeviceView {
	previous := nav.view
	nav.view = view
	return previous
}

// Home returns to the home screen.
func (nav *Navigator) Home() {
	nav.view = model.ViewHome
}

// View returns the current screen.
func (nav *Navigator) View() model.DeviceView {
	return nav.view
}

// PressLeft handles the left side button: home opens the heart-rate screen,
// any other screen goes home.
func (nav *Navigator) PressLeft() model.DeviceView {
	if nav.view == model.ViewHome {
		nav.view = model.ViewHeartRate
	} else {
		nav.view = model.ViewHome
	}
	return nav.view
}

// PressRight handles the right side button: home opens the app drawer, any
// other screen goes home.
func (nav *Navigator) PressRight() model.DeviceView {
	if nav.view == model.ViewHome {
		nav.view = model.ViewAppDrawer
	} else {
		nav.view = model.ViewHome
	}
	return nav.view
}
