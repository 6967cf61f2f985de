package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "wristsim:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Redis stores keys under the wristsim: prefix.
type Redis struct {
	client *redis.Client
	logger zerolog.Logger
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, config RedisConfig, logger zerolog.Logger) (*Redis, error) {
	if config.Addr == "" {
		config.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, unavailable("redis connect", err)
	}

	logger.Info().Str("addr", config.Addr).Int("db", config.DB).Msg("connected to redis store")
	return &Redis{client: client, logger: logger}, nil
}

func (store *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := store.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("redis get "+key, err)
	}
	return value, nil
}

func (store *Redis) Put(ctx context.Context, key string, value []byte) error {
	if err := store.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return unavailable("redis put "+key, err)
	}
	return nil
}

func (store *Redis) Close() error { return store.client.Close() }
