package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const alertKeyPrefix = "alert:rate:"

// Throttle grants at most one holder per key for the lifetime of the key.
type Throttle interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// AlertThrottle rate-limits deal alerts per user with SET NX in Redis. A nil
// client never throttles.
type AlertThrottle struct {
	client *redis.Client
}

func NewAlertThrottle(client *redis.Client) *AlertThrottle {
	return &AlertThrottle{client: client}
}

// AlertKey is the throttle key for a user.
func AlertKey(userID string) string {
	return alertKeyPrefix + userID
}

// Acquire reports whether key was free and is now held for ttl.
func (t *AlertThrottle) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if t.client == nil {
		return true, nil
	}
	return t.client.SetNX(ctx, key, 1, ttl).Result()
}

// Release frees key so a failed send does not block the next attempt.
func (t *AlertThrottle) Release(ctx context.Context, key string) error {
	if t.client == nil {
		return nil
	}
	return t.client.Del(ctx, key).Err()
}
