// Package cache provides the fast code->URL lookup layer in front of the link store
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedirectCache is a time-bounded, disposable copy of the code->URL mapping.
// It is never a source of truth: entries may be evicted or stale at any time
// and the store is always consulted on miss.
type RedirectCache interface {
	// Get returns the target URL for a code, or ok=false on miss
	Get(ctx context.Context, code string) (string, bool, error)
	// Set stores code->url with the given TTL
	Set(ctx context.Context, code, url string, ttl time.Duration) error
	// RefreshTTL slides an existing entry's expiration forward
	RefreshTTL(ctx context.Context, code string, ttl time.Duration) error
}

// RedisRedirectCache implements RedirectCache on a shared Redis client
type RedisRedirectCache struct {
	client *redis.Client
	prefix string
}

func NewRedisRedirectCache(client *redis.Client, prefix string) *RedisRedirectCache {
	return &RedisRedirectCache{client: client, prefix: prefix}
}

func (c *RedisRedirectCache) key(code string) string {
	return c.prefix + "url:" + code
}

func (c *RedisRedirectCache) Get(ctx context.Context, code string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisRedirectCache) Set(ctx context.Context, code, url string, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(code), url, ttl).Err()
}

func (c *RedisRedirectCache) RefreshTTL(ctx context.Context, code string, ttl time.Duration) error {
	return c.client.Expire(ctx, c.key(code), ttl).Err()
}
