// Package cache stores JSON values in Redis under a key prefix.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a small JSON cache on top of a go-redis client.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a cache whose keys are namespaced with prefix,
// e.g. "carrier:" + "123456".
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

// Key returns the full Redis key for key.
func (c *RedisCache) Key(key string) string {
	return c.prefix + key
}

// GetJSON decodes the cached value for key into dest.
//
// A cache miss returns false with a nil error.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to read cache key %s", c.Key(key))
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, errors.Wrapf(err, "failed to decode cache key %s", c.Key(key))
	}

	return true, nil
}

// SetJSON stores value under key for ttl.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to encode cache value")
	}

	if err := c.client.Set(ctx, c.Key(key), raw, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to write cache key %s", c.Key(key))
	}

	return nil
}
