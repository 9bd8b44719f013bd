package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache is a small string key/value cache. Get returns "" for a missing key.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an initialized Redis client.
func NewRedisCache(client *redis.Client) (Cache, error) {
	if client == nil {
		return nil, errors.New("Redis client is not initialized")
	}
	return &redisCache{client: client}, nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil // key does not exist
	}
	return val, err
}

type nopCache struct{}

// NewNopCache returns a cache that stores nothing. Used when Redis is not configured.
func NewNopCache() Cache {
	return nopCache{}
}

func (nopCache) Get(context.Context, string) (string, error) { return "", nil }

func (nopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (nopCache) Delete(context.Context, string) error { return nil }
