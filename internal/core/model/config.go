package model

import "time"

// BatteryRates defines how the simulated battery moves per second.
type BatteryRates struct {
	ChargePerSecond float64
	DrainPerSecond  float64
}

// EngineConfig contains runtime settings for the watch engine.
type EngineConfig struct {
	TickInterval time.Duration

	TransientChargingWindow time.Duration
	PopupDuration           time.Duration
	NotifySoundDuration     time.Duration
	VibrateDuration         time.Duration
	AlarmVibrateDuration    time.Duration

	AutoInterval             time.Duration
	SystemMessageProbability float64

	HeartRateInterval time.Duration
	Battery           BatteryRates

	// Seed drives message selection and heart-rate noise. Zero seeds from the clock.
	Seed int64
}

// DefaultEngineConfig returns the stock watch timings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickInterval:             time.Second,
		TransientChargingWindow:  2 * time.Second,
		PopupDuration:            3 * time.Second,
		NotifySoundDuration:      3 * time.Second,
		VibrateDuration:          500 * time.Millisecond,
		AlarmVibrateDuration:     time.Second,
		AutoInterval:             3 * time.Minute,
		SystemMessageProbability: 0.3,
		HeartRateInterval:        5 * time.Second,
		Battery: BatteryRates{
			ChargePerSecond: 2.0 / 3.0,
			DrainPerSecond:  0.5 / 3.0,
		},
	}
}

// Normalize replaces unset or invalid values with defaults.
func (config EngineConfig) Normalize() EngineConfig {
	defaults := DefaultEngineConfig()
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if config.TransientChargingWindow <= 0 {
		config.TransientChargingWindow = defaults.TransientChargingWindow
	}
	if config.PopupDuration <= 0 {
		config.PopupDuration = defaults.PopupDuration
	}
	if config.NotifySoundDuration <= 0 {
		config.NotifySoundDuration = defaults.NotifySoundDuration
	}
	if config.VibrateDuration <= 0 {
		config.VibrateDuration = defaults.VibrateDuration
	}
	if config.AlarmVibrateDuration <= 0 {
		config.AlarmVibrateDuration = defaults.AlarmVibrateDuration
	}
	if config.AutoInterval <= 0 {
		config.AutoInterval = defaults.AutoInterval
	}
	if config.SystemMessageProbability < 0 || config.SystemMessageProbability > 1 {
		config.SystemMessageProbability = defaults.SystemMessageProbability
	}
	if config.HeartRateInterval <= 0 {
		config.HeartRateInterval = defaults.HeartRateInterval
	}
	if config.Battery.ChargePerSecond <= 0 {
		config.Battery.ChargePerSecond = defaults.Battery.ChargePerSecond
	}
	if config.Battery.DrainPerSecond <= 0 {
		config.Battery.DrainPerSecond = defaults.Battery.DrainPerSecond
	}
	return config
}
