package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, KeyWallpaper)
	assert.ErrorIs(t, err, ErrNotFound)

	blob := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	require.NoError(t, store.Put(ctx, KeyWallpaper, blob))
	require.NoError(t, store.Put(ctx, KeyNotificationMode, []byte("manual")))

	got, err := store.Get(ctx, KeyWallpaper)
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	require.NoError(t, store.Put(ctx, KeyNotificationMode, []byte("auto")))
	got, err = store.Get(ctx, KeyNotificationMode)
	require.NoError(t, err)
	assert.Equal(t, "auto", string(got))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestYAMLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", yamlFileName)
	store := NewYAML(path)
	exerciseStore(t, store)

	reopened := NewYAML(path)
	got, err := reopened.Get(context.Background(), KeyNotificationMode)
	require.NoError(t, err)
	assert.Equal(t, "auto", string(got))
}

func TestYAMLStoreReportsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), yamlFileName)
	require.NoError(t, os.WriteFile(path, []byte("entries: [unclosed"), 0o644))

	_, err := NewYAML(path).Get(context.Background(), KeyDarkMode)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), sqliteFileName)
	store, err := OpenSQLite(path)
	require.NoError(t, err)
	exerciseStore(t, store)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	var version int
	require.NoError(t, reopened.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, sqliteSchemaVersion, version)

	got, err := reopened.Get(context.Background(), KeyWallpaper)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestBadgerStore(t *testing.T) {
	store, err := openBadger(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	store, err = Open(ctx, Options{Dir: dir, Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.IsType(t, &YAML{}, store)
	assert.Equal(t, filepath.Join(dir, yamlFileName), store.(*YAML).Path())

	store, err = Open(ctx, Options{Backend: BackendSQLite, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, Options{Backend: "floppy", Dir: dir})
	assert.Error(t, err)
}
