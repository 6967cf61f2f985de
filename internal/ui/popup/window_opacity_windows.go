//go:build windows

package popup

import (
	"fyne.io/fyne/v2/driver"
	"golang.org/x/sys/windows"
)

const (
	gwlExStyle  = ^uintptr(19) // GWL_EXSTYLE, -20
	wsExLayered = 0x00080000
	lwaAlpha    = 0x2
)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procGetWindowLongPtrW          = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = user32.NewProc("SetWindowLongPtrW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

// applyNativeOpacity sets the layered-window alpha to BackgroundAlpha of the
// watch brightness. GLFW windows on Windows ignore the canvas background alpha.
func (popup *Window) applyNativeOpacity(alpha uint8) {
	nativeWindow, ok := popup.window.(driver.NativeWindow)
	if !ok || user32.Load() != nil {
		return
	}

	nativeWindow.RunNative(func(context any) {
		var hwnd uintptr
		switch value := context.(type) {
		case driver.WindowsWindowContext:
			hwnd = value.HWND
		case *driver.WindowsWindowContext:
			hwnd = value.HWND
		default:
			return
		}
		if hwnd == 0 {
			return
		}

		style, _, _ := procGetWindowLongPtrW.Call(hwnd, gwlExStyle)
		if style&wsExLayered == 0 {
			procSetWindowLongPtrW.Call(hwnd, gwlExStyle, style|wsExLayered)
		}
		procSetLayeredWindowAttributes.Call(hwnd, 0, uintptr(alpha), lwaAlpha)
	})
}
