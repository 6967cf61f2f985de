// Package storage persists small watch settings and the wallpaper blob
// behind a key/value Store with several interchangeable backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned by Get for a key that was never written.
	ErrNotFound = errors.New("storage: key not found")
	// ErrStorageUnavailable wraps every backend failure other than ErrNotFound.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Keys persisted by the watch engine.
const (
	KeyWallpaper        = "wallpaper"
	KeyNotificationMode = "notification_mode"
	KeyDarkMode         = "dark_mode"
	KeyBrightness       = "brightness"
)

// Store is a byte-valued key/value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Dir holds file-based backends. Empty resolves to <UserConfigDir>/wristsim.
	Dir       string
	RedisAddr string
	Logger    zerolog.Logger
}

// Open creates the configured backend. Unknown backends are an error.
func Open(ctx context.Context, options Options) (Store, error) {
	backend := options.Backend
	if backend == "" {
		backend = BackendYAML
	}
	if backend == BackendMemory {
		return NewMemory(), nil
	}
	if backend == BackendRedis {
		return OpenRedis(ctx, RedisConfig{Addr: options.RedisAddr}, options.Logger)
	}

	dir, err := resolveDir(options.Dir)
	if err != nil {
		return nil, unavailable("resolve storage dir", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, unavailable("create storage dir", err)
	}

	switch backend {
	case BackendYAML:
		return NewYAML(filepath.Join(dir, yamlFileName)), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, sqliteFileName))
	case BackendBadger:
		return OpenBadger(filepath.Join(dir, badgerDirName))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// DefaultDir returns the per-user directory file backends live in.
func DefaultDir() (string, error) {
	return resolveDir("")
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, "wristsim"), nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}
