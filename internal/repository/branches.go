package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rewards-workers/internal/models"
)

const branchDirectoryKey = "directory:branches"

type directorySnapshot struct {
	Businesses []models.Business `json:"businesses"`
	Branches   []models.Branch   `json:"branches"`
}

// BranchRepository loads businesses and their branches. The whole directory
// is cached as one Redis value.
type BranchRepository struct {
	db    *sql.DB
	cache jsonCache
}

func NewBranchRepository(db *sql.DB, rdb *redis.Client, ttl time.Duration) *BranchRepository {
	return &BranchRepository{
		db:    db,
		cache: jsonCache{client: rdb, ttl: ttl, name: "branch"},
	}
}

func (r *BranchRepository) Directory(ctx context.Context) ([]models.Business, []models.Branch, error) {
	var snap directorySnapshot
	if r.cache.get(ctx, branchDirectoryKey, &snap) {
		return snap.Businesses, snap.Branches, nil
	}

	businesses, err := r.businesses(ctx)
	if err != nil {
		return nil, nil, err
	}
	branches, err := r.branches(ctx)
	if err != nil {
		return nil, nil, err
	}

	r.cache.set(ctx, branchDirectoryKey, directorySnapshot{Businesses: businesses, Branches: branches})
	return businesses, branches, nil
}

func (r *BranchRepository) businesses(ctx context.Context) ([]models.Business, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, COALESCE(name_he, '') FROM businesses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query businesses: %w", err)
	}
	defer rows.Close()

	var out []models.Business
	for rows.Next() {
		var b models.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.NameHe); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BranchRepository) branches(ctx context.Context) ([]models.Branch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, business_id, name, address, lat, lng, open_hour, close_hour
		FROM branches
		ORDER BY business_id, id`)
	if err != nil {
		return nil, fmt.Errorf("query branches: %w", err)
	}
	defer rows.Close()

	var out []models.Branch
	for rows.Next() {
		var (
			b             models.Branch
			opens, closes sql.NullInt64
		)
		if err := rows.Scan(&b.ID, &b.BusinessID, &b.Name, &b.Address, &b.Lat, &b.Lng, &opens, &closes); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		if opens.Valid {
			h := int(opens.Int64)
			b.OpenHour = &h
		}
		if closes.Valid {
			h := int(closes.Int64)
			b.CloseHour = &h
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Invalidate drops the cached directory.
func (r *BranchRepository) Invalidate(ctx context.Context) error {
	return r.cache.invalidate(ctx, branchDirectoryKey)
}
