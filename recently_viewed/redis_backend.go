package recently_viewed

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	"github.com/status-im/market-dashboard/config"
)

const redisKeyPrefix = "market-dashboard:"

// RedisBackend keeps values in Redis strings
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend creates a backend for the configured server
func NewRedisBackend(cfg config.RedisConfig) *RedisBackend {
	return &RedisBackend{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Ping checks the connection
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Load returns the value stored under key, or nil when there is none
func (b *RedisBackend) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save stores data under key without expiration
func (b *RedisBackend) Save(ctx context.Context, key string, data []byte) error {
	return b.client.Set(ctx, redisKeyPrefix+key, data, 0).Err()
}

// Close releases the connection pool
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
