// Package config loads the wristsim YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wristsim/internal/core/model"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Battery source selection.
const (
	BatteryAuto      = "auto"
	BatterySimulated = "simulated"
)

// Cue sinks for the desktop shell.
const (
	CueSinkNone = "none"
	CueSinkLog  = "log"
)

// Config is the full application configuration.
type Config struct {
	LogLevel    string
	MetricsAddr string
	Storage     StorageConfig
	Battery     BatteryConfig
	CueSink     string
	Engine      model.EngineConfig
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend   string
	Dir       string
	RedisAddr string
}

// BatteryConfig selects the battery source and the simulated starting level.
type BatteryConfig struct {
	Source       string
	InitialLevel int
}

type yamlConfig struct {
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`
	CueSink     string `yaml:"cue_sink"`
	Storage     struct {
		Backend   string `yaml:"backend"`
		Dir       string `yaml:"dir"`
		RedisAddr string `yaml:"redis_addr"`
	} `yaml:"storage"`
	Battery struct {
		Source       string `yaml:"source"`
		InitialLevel *int   `yaml:"initial_level"`
	} `yaml:"battery"`
	Engine struct {
		TickMillis               int      `yaml:"tick_ms"`
		AutoIntervalSeconds      int      `yaml:"auto_interval_seconds"`
		SystemMessageProbability *float64 `yaml:"system_message_probability"`
		PopupSeconds             int      `yaml:"popup_seconds"`
		TransientChargingSeconds int      `yaml:"transient_charging_seconds"`
		VibrateMillis            int      `yaml:"vibrate_ms"`
		HeartRateSeconds         int      `yaml:"heart_rate_seconds"`
		Seed                     int64    `yaml:"seed"`
	} `yaml:"engine"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Storage:  StorageConfig{Backend: "yaml"},
		Battery:  BatteryConfig{Source: BatteryAuto, InitialLevel: 85},
		CueSink:  CueSinkLog,
		Engine:   model.DefaultEngineConfig(),
	}
}

// DefaultPath returns <UserConfigDir>/wristsim/config.yaml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, "wristsim", configFileName), nil
}

// Load reads the file at path. A missing file yields Default(); out-of-range
// values keep their defaults.
func Load(path string) (Config, error) {
	config := Default()
	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse config yaml: %w", err)
	}
	applyYamlConfig(&config, fileData)
	return config, nil
}

func applyYamlConfig(config *Config, fileData yamlConfig) {
	if fileData.LogLevel != "" {
		config.LogLevel = fileData.LogLevel
	}
	config.MetricsAddr = fileData.MetricsAddr
	if fileData.CueSink == CueSinkNone || fileData.CueSink == CueSinkLog {
		config.CueSink = fileData.CueSink
	}

	if fileData.Storage.Backend != "" {
		config.Storage.Backend = fileData.Storage.Backend
	}
	config.Storage.Dir = fileData.Storage.Dir
	config.Storage.RedisAddr = fileData.Storage.RedisAddr

	if fileData.Battery.Source == BatteryAuto || fileData.Battery.Source == BatterySimulated {
		config.Battery.Source = fileData.Battery.Source
	}
	if level := fileData.Battery.InitialLevel; level != nil && *level >= 0 && *level <= 100 {
		config.Battery.InitialLevel = *level
	}

	engine := &config.Engine
	if fileData.Engine.TickMillis >= 10 {
		engine.TickInterval = time.Duration(fileData.Engine.TickMillis) * time.Millisecond
	}
	if fileData.Engine.AutoIntervalSeconds > 0 {
		engine.AutoInterval = time.Duration(fileData.Engine.AutoIntervalSeconds) * time.Second
	}
	if probability := fileData.Engine.SystemMessageProbability; probability != nil && *probability >= 0 && *probability <= 1 {
		engine.SystemMessageProbability = *probability
	}
	if fileData.Engine.PopupSeconds > 0 {
		engine.PopupDuration = time.Duration(fileData.Engine.PopupSeconds) * time.Second
		engine.NotifySoundDuration = engine.PopupDuration
	}
	if fileData.Engine.TransientChargingSeconds > 0 {
		engine.TransientChargingWindow = time.Duration(fileData.Engine.TransientChargingSeconds) * time.Second
	}
	if fileData.Engine.VibrateMillis > 0 {
		engine.VibrateDuration = time.Duration(fileData.Engine.VibrateMillis) * time.Millisecond
	}
	if fileData.Engine.HeartRateSeconds > 0 {
		engine.HeartRateInterval = time.Duration(fileData.Engine.HeartRateSeconds) * time.Second
	}
	engine.Seed = fileData.Engine.Seed
}
