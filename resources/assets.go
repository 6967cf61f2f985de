// Package resources renders the application icons.
package resources

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"wristsim/internal/core/model"

	"fyne.io/fyne/v2"
)

var iconTemplate = template.Must(template.New("watch").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64" viewBox="0 0 64 64">
<rect x="22" y="2" width="20" height="10" rx="3" fill="#3a3a3a"/>
<rect x="22" y="52" width="20" height="10" rx="3" fill="#3a3a3a"/>
<circle cx="32" cy="32" r="22" fill="{{.Face}}" stroke="#3a3a3a" stroke-width="4"/>
<circle cx="32" cy="32" r="17" fill="none" stroke="{{.Ring}}" stroke-width="4" stroke-dasharray="{{.Dash}} 200" transform="rotate(-90 32 32)"/>
{{- if .Charging}}
<path d="M34 20 L26 34 H32 L30 44 L38 30 H32 Z" fill="#f2c94c"/>
{{- end}}
{{- if .Badge}}
<circle cx="50" cy="14" r="8" fill="#eb5757"/>
{{- end}}
</svg>`))

type iconKey struct {
	Face     string
	Ring     string
	Dash     int
	Charging bool
	Badge    bool
}

var iconCache sync.Map

// TrayIcon returns an icon reflecting power, battery level, charging and
// unread notifications. Levels are bucketed by ten so the cache stays small.
func TrayIcon(snapshot model.Snapshot) fyne.Resource {
	key := iconKeyFor(snapshot)
	if cached, ok := iconCache.Load(key); ok {
		return cached.(fyne.Resource)
	}

	var buffer bytes.Buffer
	if err := iconTemplate.Execute(&buffer, key); err != nil {
		panic(fmt.Errorf("render icon: %w", err))
	}
	name := fmt.Sprintf("wristsim-%s-%d-%t-%t.svg", key.Face[1:], key.Dash, key.Charging, key.Badge)
	resource := fyne.NewStaticResource(name, buffer.Bytes())
	iconCache.Store(key, resource)
	return resource
}

// AppIcon returns the icon used for windows.
func AppIcon() fyne.Resource {
	return TrayIcon(model.Snapshot{Power: model.PowerOn, Battery: model.BatteryStatus{LevelPercent: 100}})
}

func iconKeyFor(snapshot model.Snapshot) iconKey {
	bucket := model.ClampLevel(snapshot.Battery.LevelPercent) / 10 * 10
	key := iconKey{
		Face:     "#1c1c1e",
		Ring:     "#27ae60",
		Dash:     bucket * 107 / 100,
		Charging: snapshot.Battery.Charging,
		Badge:    snapshot.Power.Powered() && snapshot.UnreadCount > 0,
	}
	switch {
	case !snapshot.Power.Powered():
		key.Face = "#6b6b6b"
		key.Ring = "#9e9e9e"
	case bucket <= 20:
		key.Ring = "#eb5757"
	}
	return key
}
