package repository

import (
	"context"
	"database/sql"
	"fmt"

	"rewards-workers/internal/models"
)

// PurchaseRepository reads a user's purchased vouchers. History is never
// cached because a purchase must influence the very next ranking.
type PurchaseRepository struct {
	db *sql.DB
}

func NewPurchaseRepository(db *sql.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// PurchaseHistory returns the user's purchases, newest first. An unknown
// user has an empty history.
func (r *PurchaseRepository) PurchaseHistory(ctx context.Context, userID string) ([]models.UserVoucher, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT uv.id, uv.user_id, uv.status, uv.purchased_at,
		       v.id, v.title, COALESCE(v.title_he, ''), v.merchant_name, v.category,
		       v.original_price, v.discounted_price, v.discount_percent,
		       v.valid_until, v.in_stock, v.popular
		FROM user_vouchers uv
		JOIN vouchers v ON v.id = uv.voucher_id
		WHERE uv.user_id = $1
		ORDER BY uv.purchased_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query purchases for %s: %w", userID, err)
	}
	defer rows.Close()

	history := []models.UserVoucher{}
	for rows.Next() {
		var (
			p                models.UserVoucher
			status, category string
			validUntil       sql.NullTime
		)
		if err := rows.Scan(
			&p.ID, &p.UserID, &status, &p.PurchasedAt,
			&p.Voucher.ID, &p.Voucher.Title, &p.Voucher.TitleHe, &p.Voucher.MerchantName, &category,
			&p.Voucher.OriginalPrice, &p.Voucher.DiscountedPrice, &p.Voucher.DiscountPercent,
			&validUntil, &p.Voucher.InStock, &p.Voucher.Popular,
		); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.Status = models.PurchaseStatus(status)
		p.Voucher.Category = models.Category(category)
		if validUntil.Valid {
			p.Voucher.ValidUntil = validUntil.Time
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return history, nil
}
