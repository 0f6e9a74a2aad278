package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vibecut/autoeditor/pkg/config"
)

const flagKeyPrefix = "autoeditor:flag:"

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisFlagStore keeps feature flags in Redis so toggles apply across all
// API and worker instances at once.
type RedisFlagStore struct {
	client *redis.Client
}

// NewRedisFlagStore creates a Redis-backed flag store
func NewRedisFlagStore(client *redis.Client) *RedisFlagStore {
	return &RedisFlagStore{client: client}
}

// GetBool reads a boolean flag, returning def when the flag is unset
func (s *RedisFlagStore) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	val, err := s.client.Get(ctx, flagKeyPrefix+key).Result()
	if err == redis.Nil {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read flag %s: %w", key, err)
	}
	return val == "1" || val == "true", nil
}

// SetBool writes a boolean flag with no expiry
func (s *RedisFlagStore) SetBool(ctx context.Context, key string, value bool) error {
	val := "0"
	if value {
		val = "1"
	}
	if err := s.client.Set(ctx, flagKeyPrefix+key, val, 0).Err(); err != nil {
		return fmt.Errorf("failed to write flag %s: %w", key, err)
	}
	return nil
}
