package cache

import (
	"context"
	"errors"
	"time"

	"github.com/nexus/jobboard/domain"
	"github.com/redis/go-redis/v9"
)

// Namespace prefixes every key written by RedisCache.
const Namespace = "cache:"

const scanBatch = 100

// RedisCache implements domain.Cache on Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed cache
func NewRedisCache(client *redis.Client) domain.Cache {
	return &RedisCache{client: client}
}

// Get implements domain.Cache
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, Namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set implements domain.Cache
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, Namespace+key, value, ttl).Err()
}

// DeletePrefix implements domain.Cache using SCAN so large keyspaces are not blocked.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, Namespace+prefix+"*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// NoopCache implements domain.Cache by storing nothing
type NoopCache struct{}

// NewNoopCache returns a cache that always misses
func NewNoopCache() domain.Cache { return NoopCache{} }

// Get implements domain.Cache
func (NoopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set implements domain.Cache
func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// DeletePrefix implements domain.Cache
func (NoopCache) DeletePrefix(context.Context, string) error { return nil }
