package navigator

import (
	"testing"

	"wristsim/internal/core/model"

	"github.com/stretchr/testify/assert"
)

func TestNavigateAlwaysSucceeds(t *testing.T) {
	nav := New()
	assert.Equal(t, model.ViewHome, nav.View())

	for _, view := range model.Views {
		nav.Navigate(view)
		assert.Equal(t, view, nav.View())
	}

	previous := nav.Navigate(model.ViewMusic)
	assert.Equal(t, model.ViewAppDrawer, previous)

	nav.Home()
	assert.Equal(t, model.ViewHome, nav.View())
}

func TestSideButtons(t *testing.T) {
	nav := New()

	assert.Equal(t, model.ViewHeartRate, nav.PressLeft())
	assert.Equal(t, model.ViewHome, nav.PressLeft())

	assert.Equal(t, model.ViewAppDrawer, nav.PressRight())
	assert.Equal(t, model.ViewHome, nav.PressRight())

	nav.Navigate(model.ViewSettings)
	assert.Equal(t, model.ViewHome, nav.PressLeft())
}
