// Package popup shows the active watch notification in an undecorated window.
package popup

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"wristsim/internal/core/model"
	"wristsim/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Config defines popup visuals.
type Config struct {
	Brightness int
	DarkMode   bool
	// VibrateFor bounds a single shake.
	VibrateFor time.Duration
}

// Window manages the popup UI.
type Window struct {
	app          fyne.App
	window       fyne.Window
	config       Config
	background   *canvas.Rectangle
	icon         *canvas.Image
	titleLabel   *canvas.Text
	messageLabel *canvas.Text
	ageLabel     *canvas.Text
	openButton   *widget.Button
	shake        *shakeLayout
	body         *fyne.Container
	shaker       *animation.Engine
	shownID      uint64
	visible      bool
	onOpen       func()
}

const (
	popupWidthFraction  = float32(0.18)
	popupHeightFraction = float32(0.12)
	defaultScreenWidth  = float32(1920)
	defaultScreenHeight = float32(1080)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates a hidden popup window.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow("WristSim")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{})

	icon := canvas.NewImageFromResource(theme.InfoIcon())
	icon.FillMode = canvas.ImageFillContain

	titleLabel := canvas.NewText("", color.White)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 18

	messageLabel := canvas.NewText("", color.White)
	messageLabel.TextSize = 14

	ageLabel := canvas.NewText("", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	ageLabel.TextSize = 12

	openButton := widget.NewButton("Open messages", nil)

	leftContent := container.New(&textPanelLayout{}, titleLabel, messageLabel, ageLabel)
	rightContent := container.New(&actionPanelLayout{}, icon, openButton)
	shake := &shakeLayout{}
	body := container.New(shake, container.NewGridWithColumns(2, leftContent, rightContent))
	window.SetContent(container.NewStack(background, body))

	popup := &Window{
		app:          app,
		window:       window,
		background:   background,
		icon:         icon,
		titleLabel:   titleLabel,
		messageLabel: messageLabel,
		ageLabel:     ageLabel,
		openButton:   openButton,
		shake:        shake,
		body:         body,
	}
	popup.shaker = animation.New(animation.DefaultConfig(), popup.setOffset)
	openButton.OnTapped = func() {
		if popup.onOpen != nil {
			popup.onOpen()
		}
	}
	popup.UpdateConfig(config)
	return popup
}

// SetOnOpen sets the handler for the open button.
func (popup *Window) SetOnOpen(handler func()) {
	popup.onOpen = handler
}

// Sync shows, refreshes or hides the popup to match snapshot. It must run on
// the UI goroutine.
func (popup *Window) Sync(snapshot model.Snapshot) {
	if snapshot.ActivePopup == nil || !snapshot.Power.Powered() {
		popup.Hide()
		return
	}
	if !popup.visible || snapshot.ActivePopup.ID != popup.shownID {
		popup.Show(*snapshot.ActivePopup, snapshot.CurrentTime)
	} else {
		popup.ageLabel.Text = Age(snapshot.ActivePopup.CreatedAt, snapshot.CurrentTime)
		popup.ageLabel.Refresh()
	}

	switch {
	case snapshot.Vibrating && !popup.shaker.Running():
		popup.shaker.StartShake(context.Background(), popup.config.VibrateFor)
	case !snapshot.Vibrating && popup.shaker.Running():
		popup.shaker.Stop()
	}
}

// Show displays notification.
func (popup *Window) Show(notification model.Notification, now time.Time) {
	popup.shownID = notification.ID
	popup.titleLabel.Text = KindTitle(notification.Kind)
	popup.messageLabel.Text = notification.Message
	popup.ageLabel.Text = Age(notification.CreatedAt, now)
	popup.icon.Resource = kindIcon(notification.Kind)
	popup.titleLabel.Refresh()
	popup.messageLabel.Refresh()
	popup.ageLabel.Refresh()
	popup.icon.Refresh()

	popup.resizeToScreenFraction()
	if !popup.visible {
		popup.visible = true
		popup.window.Show()
	}
}

// Hide closes the popup and stops the shake.
func (popup *Window) Hide() {
	popup.shaker.Stop()
	if !popup.visible {
		return
	}
	popup.visible = false
	popup.shownID = 0
	popup.window.Hide()
}

// UpdateConfig updates popup visuals.
func (popup *Window) UpdateConfig(config Config) {
	if config.VibrateFor <= 0 {
		config.VibrateFor = 400 * time.Millisecond
	}
	popup.config = config
	background, foreground := Palette(config.DarkMode)
	background.A = BackgroundAlpha(config.Brightness)
	popup.background.FillColor = background
	popup.titleLabel.Color = foreground
	popup.messageLabel.Color = foreground
	canvas.Refresh(popup.background)
	popup.titleLabel.Refresh()
	popup.messageLabel.Refresh()
	popup.applyNativeOpacity(background.A)
}

func (popup *Window) setOffset(offset float32) {
	fyne.Do(func() {
		popup.shake.offset = offset
		popup.body.Refresh()
	})
}

func (popup *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := popup.window.Canvas().Size()
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * popupWidthFraction
	height := screenSize.Height * popupHeightFraction
	minSize := popup.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	popup.window.Resize(fyne.NewSize(width, height))
	popup.window.CenterOnScreen()
}

// KindTitle returns the popup heading for a notification kind.
func KindTitle(kind model.NotificationKind) string {
	switch kind {
	case model.KindHealth:
		return "Health"
	case model.KindSystem:
		return "System"
	case model.KindAlarm:
		return "Alarm"
	case model.KindMessage:
		return "Message"
	case model.KindCharge:
		return "Battery"
	default:
		return "Notification"
	}
}

func kindIcon(kind model.NotificationKind) fyne.Resource {
	switch kind {
	case model.KindHealth:
		return theme.AccountIcon()
	case model.KindAlarm:
		return theme.WarningIcon()
	case model.KindMessage:
		return theme.MailComposeIcon()
	case model.KindCharge:
		return theme.ViewRefreshIcon()
	default:
		return theme.InfoIcon()
	}
}

// Age renders how long ago a notification arrived.
func Age(created, now time.Time) string {
	elapsed := now.Sub(created)
	if elapsed < time.Minute {
		return "now"
	}
	if elapsed < time.Hour {
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	}
	return created.Format("15:04")
}

// BackgroundAlpha maps screen brightness to background opacity. Dim screens
// stay readable.
func BackgroundAlpha(brightness int) uint8 {
	brightness = model.ClampLevel(brightness)
	const minAlpha, maxAlpha = 120, 245
	return uint8(minAlpha + (maxAlpha-minAlpha)*brightness/100)
}

// Palette returns background and text colors.
func Palette(dark bool) (color.NRGBA, color.NRGBA) {
	if dark {
		return color.NRGBA{R: 18, G: 18, B: 20, A: 255}, color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	}
	return color.NRGBA{R: 44, G: 62, B: 80, A: 255}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}

type shakeLayout struct {
	offset float32
}

func (layout *shakeLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, object := range objects {
		object.Move(fyne.NewPos(layout.offset, 0))
		object.Resize(size)
	}
}

func (layout *shakeLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	size := fyne.NewSize(0, 0)
	for _, object := range objects {
		size = size.Max(object.MinSize())
	}
	return size
}

type actionPanelLayout struct{}

func (layout *actionPanelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	icon := objects[0]
	button := objects[1]

	buttonSize := button.MinSize()
	buttonHeight := buttonSize.Height
	if buttonHeight > size.Height*0.35 {
		buttonHeight = size.Height * 0.35
	}
	iconAreaHeight := size.Height - buttonHeight
	if iconAreaHeight < 0 {
		iconAreaHeight = 0
	}

	margin := iconAreaHeight * 0.1
	side := iconAreaHeight * 0.8
	if side > size.Width-margin {
		side = size.Width - margin
	}
	if side < 0 {
		side = 0
	}
	x := size.Width - margin - side
	if x < 0 {
		x = 0
	}
	icon.Move(fyne.NewPos(x, margin))
	icon.Resize(fyne.NewSize(side, side))

	buttonWidth := buttonSize.Width
	if buttonWidth > size.Width {
		buttonWidth = size.Width
	}
	buttonX := size.Width - margin - buttonWidth
	if buttonX < 0 {
		buttonX = 0
	}
	button.Move(fyne.NewPos(buttonX, iconAreaHeight))
	button.Resize(fyne.NewSize(buttonWidth, buttonSize.Height))
}

func (layout *actionPanelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	iconMin := objects[0].MinSize()
	buttonMin := objects[1].MinSize()
	width := iconMin.Width
	if buttonMin.Width > width {
		width = buttonMin.Width
	}
	return fyne.NewSize(width, iconMin.Height+buttonMin.Height)
}

type textPanelLayout struct{}

func (layout *textPanelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	title := objects[0]
	message := objects[1]
	age := objects[2]

	pad := size.Height * 0.08
	availableWidth := size.Width - pad*2
	if availableWidth < 0 {
		availableWidth = 0
	}

	titleSize := title.MinSize()
	title.Move(fyne.NewPos(pad, pad))
	title.Resize(fyne.NewSize(availableWidth, titleSize.Height))

	messageSize := message.MinSize()
	messageY := pad + titleSize.Height + 6
	message.Move(fyne.NewPos(pad, messageY))
	message.Resize(fyne.NewSize(availableWidth, messageSize.Height))

	ageSize := age.MinSize()
	ageY := size.Height - pad - ageSize.Height
	if ageY < 0 {
		ageY = 0
	}
	age.Move(fyne.NewPos(pad, ageY))
	age.Resize(ageSize)
}

func (layout *textPanelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, 0)
	}
	var width, height float32
	for _, object := range objects[:3] {
		objectSize := object.MinSize()
		if objectSize.Width > width {
			width = objectSize.Width
		}
		height += objectSize.Height
	}
	return fyne.NewSize(width+20, height+30)
}
