package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rewards-workers/internal/common/metrics"
)

// jsonCache is a read-through helper over Redis. A nil client disables
// caching so repositories also work without Redis (CLI, tests).
type jsonCache struct {
	client *redis.Client
	ttl    time.Duration
	name   string
}

// get decodes the cached value into dst and reports whether it was found.
// Redis errors and undecodable payloads count as misses.
func (c jsonCache) get(ctx context.Context, key string, dst interface{}) bool {
	if c.client == nil {
		return false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
		return false
	case err != nil:
		metrics.CacheLookups.WithLabelValues(c.name, "error").Inc()
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		metrics.CacheLookups.WithLabelValues(c.name, "error").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
	return true
}

func (c jsonCache) set(ctx context.Context, key string, v interface{}) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

func (c jsonCache) invalidate(ctx context.Context, key string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}
