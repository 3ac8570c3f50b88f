package cache

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-redis/redis/v8"

	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
)

// RedisStore backs the parse cache with Redis so results survive restarts
// and are shared between replicas.
type RedisStore struct {
	client *redis.Client
	config *config.Config
	hits   int64
	misses int64
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{
		client: client,
		config: cfg,
	}, nil
}

// Get returns the cached value for the input, or ErrCacheDisabled on miss.
func (s *RedisStore) Get(ctx context.Context, input string) (string, error) {
	key := s.key(input)
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			atomic.AddInt64(&s.misses, 1)
			common.LogCacheMiss("redis", key)
			return "", common.ErrCacheDisabled
		}
		return "", fmt.Errorf("failed to read parse cache: %w", err)
	}
	atomic.AddInt64(&s.hits, 1)
	common.LogCacheHit("redis", key)
	return value, nil
}

// Set stores a value under the configured TTL.
func (s *RedisStore) Set(ctx context.Context, input, value string) error {
	if err := s.client.Set(ctx, s.key(input), value, s.config.Cache.TTL).Err(); err != nil {
		return fmt.Errorf("failed to write parse cache: %w", err)
	}
	return nil
}

func (s *RedisStore) key(input string) string {
	return fmt.Sprintf("parse:result:%s", hashKey(input))
}

// Stats reports hit/miss counters for the health endpoint.
func (s *RedisStore) Stats() map[string]interface{} {
	hits := atomic.LoadInt64(&s.hits)
	misses := atomic.LoadInt64(&s.misses)
	total := hits + misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return map[string]interface{}{
		"backend":   "redis",
		"hits":      hits,
		"misses":    misses,
		"hit_ratio": ratio,
	}
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
