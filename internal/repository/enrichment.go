package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"rewards-workers/internal/models"
)

const enrichmentKeyPrefix = "user:enrichment:"

// EnrichmentRepository looks up third-party enrichment records by exact user
// id. It satisfies signals.EnrichmentStore.
type EnrichmentRepository struct {
	db    *sql.DB
	cache jsonCache
}

func NewEnrichmentRepository(db *sql.DB, rdb *redis.Client, ttl time.Duration) *EnrichmentRepository {
	return &EnrichmentRepository{
		db:    db,
		cache: jsonCache{client: rdb, ttl: ttl, name: "enrichment"},
	}
}

// Lookup returns (nil, nil) when the user has no record.
func (r *EnrichmentRepository) Lookup(ctx context.Context, userID string) (*models.EnrichmentData, error) {
	key := enrichmentKeyPrefix + userID

	var cached models.EnrichmentData
	if r.cache.get(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		e                              models.EnrichmentData
		interests                      pq.StringArray
		income, ageRange, gender, city sql.NullString
		hasChildren                    sql.NullBool
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, interests, income_level, age_range, gender, city, has_children
		FROM user_enrichment
		WHERE user_id = $1`, userID).Scan(
		&e.UserID, &interests, &income, &ageRange, &gender, &city, &hasChildren,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query enrichment %s: %w", userID, err)
	}

	e.Interests = []string(interests)
	if e.Interests == nil {
		e.Interests = []string{}
	}
	e.IncomeLevel = models.IncomeLevel(income.String)
	e.AgeRange = ageRange.String
	e.Gender = gender.String
	e.City = city.String
	e.HasChildren = hasChildren.Bool

	r.cache.set(ctx, key, e)
	return &e, nil
}
