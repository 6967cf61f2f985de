// Package metrics exposes Prometheus instrumentation for the watch engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// NotificationsTotal counts delivered notifications by kind.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wristsim_notifications_total",
		Help: "Total number of notifications delivered, by kind.",
	}, []string{"kind"})

	// CuePlaysTotal counts audio cue starts by cue.
	CuePlaysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wristsim_cue_plays_total",
		Help: "Total number of audio cue starts, by cue.",
	}, []string{"cue"})

	// CueFailuresTotal counts cue playback failures by cue.
	CueFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wristsim_cue_failures_total",
		Help: "Total number of audio cue playback failures, by cue.",
	}, []string{"cue"})

	// AlarmFiresTotal counts alarm firings.
	AlarmFiresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wristsim_alarm_fires_total",
		Help: "Total number of times the alarm fired.",
	})

	// PowerTransitionsTotal counts power state changes by target state.
	PowerTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wristsim_power_transitions_total",
		Help: "Total number of power transitions, by target state.",
	}, []string{"state"})

	// StorageErrorsTotal counts failed persistence operations by operation.
	StorageErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wristsim_storage_errors_total",
		Help: "Total number of failed persistence operations, by operation.",
	}, []string{"op"})

	// BatteryLevel tracks the last observed battery level.
	BatteryLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wristsim_battery_level_percent",
		Help: "Last observed battery level in percent.",
	})

	// UnreadNotifications tracks the unread notification count.
	UnreadNotifications = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wristsim_unread_notifications",
		Help: "Current number of unread notifications.",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
