// Package repository loads the collaborators the personalization workers
// read from: the voucher catalog, user profiles, purchase history,
// enrichment records and the business directory.
package repository

import (
	"context"
	"errors"
	"time"

	"rewards-workers/internal/models"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrIndexNotFound is returned when the search index is missing.
var ErrIndexNotFound = errors.New("search index not found")

// CatalogSource supplies the voucher catalog. Implementations may pre-filter
// on stock and expiry, but callers must not rely on it.
type CatalogSource interface {
	ActiveVouchers(ctx context.Context, now time.Time) ([]models.Voucher, error)
}

// UserStore loads user profiles.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// PurchaseStore loads a user's purchase history.
type PurchaseStore interface {
	PurchaseHistory(ctx context.Context, userID string) ([]models.UserVoucher, error)
}

// BranchStore loads the business directory.
type BranchStore interface {
	Directory(ctx context.Context) ([]models.Business, []models.Branch, error)
}
