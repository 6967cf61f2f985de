package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	server := miniredis.RunT(t)

	store, err := OpenRedis(context.Background(), RedisConfig{Addr: server.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
	assert.True(t, server.Exists(redisKeyPrefix+KeyWallpaper))
}

func TestRedisStoreUnavailable(t *testing.T) {
	server := miniredis.RunT(t)
	store, err := OpenRedis(context.Background(), RedisConfig{Addr: server.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	server.Close()
	err = store.Put(context.Background(), KeyDarkMode, []byte("true"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = OpenRedis(context.Background(), RedisConfig{Addr: server.Addr()}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
