// Package cache keeps recently computed statistics in Redis so dashboard
// refreshes do not re-run the aggregations.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "stats:"
	genKey    = keyPrefix + "gen"
)

// StatsCache stores serialized statistics snapshots with a TTL.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Generation returns the current snapshot generation. Snapshots are keyed
// by generation, so a value computed before an Invalidate is written under a
// key that is never read again.
func (c *StatsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached snapshot for scope in generation gen and whether it
// was present.
func (c *StatsCache) Get(ctx context.Context, gen int64, scope string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, snapshotKey(gen, scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *StatsCache) Set(ctx context.Context, gen int64, scope string, data []byte) error {
	return c.client.Set(ctx, snapshotKey(gen, scope), data, c.ttl).Err()
}

// Invalidate moves to a new generation. Any order mutation can move any
// branch's numbers as well as the all-branches view; old snapshots expire by
// TTL.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, genKey).Err()
}

func snapshotKey(gen int64, scope string) string {
	return fmt.Sprintf("%s%d:%s", keyPrefix, gen, scope)
}
