// Package cache provides an explicit, injectable cache for rebuildable
// projections such as reference taxonomies. Entries carry a TTL and can be
// invalidated by key; staleness within the TTL window is accepted.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the get/set/invalidate contract used by services. Implementations
// must treat a missing key as a miss, not an error.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate removes a key. Removing an absent key is not an error.
	Invalidate(ctx context.Context, key string) error
}

// Redis is a Redis-backed Cache.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis cache from a redis:// URL.
func NewRedis(redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Redis{client: redis.NewClient(opt)}, nil
}

// NewRedisWithClient wraps an existing client. Used by tests.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Invalidate implements Cache.
func (r *Redis) Invalidate(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Disabled is a no-op Cache used when no Redis URL is configured. Every Get
// is a miss, so callers always rebuild from the database.
type Disabled struct{}

// Get implements Cache.
func (Disabled) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set implements Cache.
func (Disabled) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Invalidate implements Cache.
func (Disabled) Invalidate(context.Context, string) error { return nil }
