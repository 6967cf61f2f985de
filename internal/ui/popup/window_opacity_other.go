//go:build !windows

package popup

// applyNativeOpacity is a no-op where the canvas background alpha suffices.
func (popup *Window) applyNativeOpacity(uint8) {}
