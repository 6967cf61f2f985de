package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const yamlFileName = "state.yaml"

type yamlDocument struct {
	Entries map[string]string `yaml:"entries"`
}

// YAML keeps every key in one YAML file, base64-encoded. The whole file is
// rewritten on each Put.
type YAML struct {
	mu   sync.Mutex
	path string
}

// NewYAML returns a store backed by the file at path. The file is created on first Put.
func NewYAML(path string) *YAML {
	return &YAML{path: path}
}

// Path returns the backing file.
func (store *YAML) Path() string {
	return store.path
}

func (store *YAML) Get(_ context.Context, key string) ([]byte, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	document, err := store.readLocked()
	if err != nil {
		return nil, err
	}
	encoded, ok := document.Entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, unavailable("decode "+key, err)
	}
	return value, nil
}

func (store *YAML) Put(_ context.Context, key string, value []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	document, err := store.readLocked()
	if err != nil {
		return err
	}
	document.Entries[key] = base64.StdEncoding.EncodeToString(value)

	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return unavailable("create state directory", err)
	}
	serialized, err := yaml.Marshal(document)
	if err != nil {
		return unavailable("marshal state yaml", err)
	}
	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return unavailable("write state file", err)
	}
	return nil
}

func (store *YAML) Close() error { return nil }

func (store *YAML) readLocked() (yamlDocument, error) {
	document := yamlDocument{Entries: map[string]string{}}
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document, nil
		}
		return document, unavailable("read state file", err)
	}
	if err := yaml.Unmarshal(rawData, &document); err != nil {
		return document, unavailable("parse state yaml", fmt.Errorf("%s: %w", store.path, err))
	}
	if document.Entries == nil {
		document.Entries = map[string]string{}
	}
	return document, nil
}
