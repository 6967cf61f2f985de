package popup

import (
	"image/color"
	"testing"
	"time"

	"wristsim/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/stretchr/testify/assert"
)

func TestKindTitle(t *testing.T) {
	assert.Equal(t, "Health", KindTitle(model.KindHealth))
	assert.Equal(t, "Alarm", KindTitle(model.KindAlarm))
	assert.Equal(t, "Battery", KindTitle(model.KindCharge))
	assert.Equal(t, "Notification", KindTitle(model.NotificationKind(42)))
}

func TestAge(t *testing.T) {
	created := time.Date(2024, 6, 12, 9, 15, 0, 0, time.UTC)
	assert.Equal(t, "now", Age(created, created.Add(59*time.Second)))
	assert.Equal(t, "5m ago", Age(created, created.Add(5*time.Minute+10*time.Second)))
	assert.Equal(t, "09:15", Age(created, created.Add(2*time.Hour)))
}

func TestBackgroundAlpha(t *testing.T) {
	assert.Equal(t, uint8(120), BackgroundAlpha(0))
	assert.Equal(t, uint8(245), BackgroundAlpha(100))
	assert.Equal(t, uint8(245), BackgroundAlpha(180))
	assert.Equal(t, uint8(120), BackgroundAlpha(-5))
	assert.Less(t, BackgroundAlpha(40), BackgroundAlpha(80))
}

func TestPalette(t *testing.T) {
	darkBackground, darkText := Palette(true)
	lightBackground, _ := Palette(false)
	assert.NotEqual(t, darkBackground, lightBackground)
	assert.Greater(t, darkText.R, darkBackground.R)
}

func TestShakeLayoutOffsetsChildren(t *testing.T) {
	layout := &shakeLayout{offset: -6}
	child := canvas.NewRectangle(color.Black)
	layout.Layout([]fyne.CanvasObject{child}, fyne.NewSize(100, 40))
	assert.Equal(t, fyne.NewPos(-6, 0), child.Position())
	assert.Equal(t, fyne.NewSize(100, 40), child.Size())
}
