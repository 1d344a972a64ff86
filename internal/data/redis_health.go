package data

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisHealth answers readiness probes for the shared Redis client. Session
// reads and writes go through the adapter in internal/adapters/redis; this
// type only reports whether Redis is reachable at all.
type RedisHealth struct {
	client redis.UniversalClient
}

// NewRedisHealth wraps the given client for use as a readiness probe.
func NewRedisHealth(client redis.UniversalClient) *RedisHealth {
	return &RedisHealth{client: client}
}

// Health pings Redis with the caller's deadline.
func (r *RedisHealth) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
