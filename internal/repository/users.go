package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rewards-workers/internal/models"
)

const userProfileKeyPrefix = "user:profile:"

// UserRepository reads profiles from PostgreSQL behind a Redis cache.
type UserRepository struct {
	db    *sql.DB
	cache jsonCache
}

func NewUserRepository(db *sql.DB, rdb *redis.Client, ttl time.Duration) *UserRepository {
	return &UserRepository{
		db:    db,
		cache: jsonCache{client: rdb, ttl: ttl, name: "user"},
	}
}

// GetUser returns the profile for userID or ErrNotFound. Stored preference
// values outside the known enums are dropped.
func (r *UserRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	key := userProfileKeyPrefix + userID

	var cached models.User
	if r.cache.get(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		u                          models.User
		phone, email               sql.NullString
		focus, preference, cadence sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email,
		       spending_focus, deal_preference, notification_frequency
		FROM users
		WHERE id = $1`, userID).Scan(
		&u.ID, &u.Name, &phone, &email,
		&focus, &preference, &cadence,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user %s: %w", userID, err)
	}

	u.Phone = phone.String
	u.Email = email.String
	if f := models.SpendingFocus(focus.String); f.Valid() {
		u.Preferences.SpendingFocus = &f
	}
	if p := models.DealPreference(preference.String); p.Valid() {
		u.Preferences.DealPreference = &p
	}
	if n := models.NotificationFrequency(cadence.String); n.Valid() {
		u.Preferences.NotificationFrequency = &n
	}

	r.cache.set(ctx, key, u)
	return &u, nil
}

// Invalidate drops the cached profile so the next read hits the database.
func (r *UserRepository) Invalidate(ctx context.Context, userID string) error {
	return r.cache.invalidate(ctx, userProfileKeyPrefix+userID)
}
