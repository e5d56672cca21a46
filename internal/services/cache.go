package services

import (
	"context"
	"time"
)

// Cache is the subset of Redis operations the suggestion layer depends on.
// *RedisService satisfies it; tests supply an in-memory implementation.
// Get returns redis.Nil as error on a miss, matching the go-redis contract.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)
	HSet(ctx context.Context, key string, values ...interface{}) error
}

var _ Cache = (*RedisService)(nil)
