package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rewards-workers/internal/models"
)

const activeVouchersQuery = `
	SELECT id, title, COALESCE(title_he, ''), merchant_name, category,
	       original_price, discounted_price, discount_percent,
	       valid_until, in_stock, popular
	FROM vouchers
	WHERE in_stock = TRUE AND valid_until > $1
	ORDER BY id`

// CatalogRepository reads the voucher catalog from PostgreSQL.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ActiveVouchers returns in-stock vouchers that expire after now.
func (r *CatalogRepository) ActiveVouchers(ctx context.Context, now time.Time) ([]models.Voucher, error) {
	rows, err := r.db.QueryContext(ctx, activeVouchersQuery, now)
	if err != nil {
		return nil, fmt.Errorf("query vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []models.Voucher
	for rows.Next() {
		var (
			v          models.Voucher
			category   string
			validUntil sql.NullTime
		)
		if err := rows.Scan(
			&v.ID, &v.Title, &v.TitleHe, &v.MerchantName, &category,
			&v.OriginalPrice, &v.DiscountedPrice, &v.DiscountPercent,
			&validUntil, &v.InStock, &v.Popular,
		); err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		v.Category = models.Category(category)
		if validUntil.Valid {
			v.ValidUntil = validUntil.Time
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vouchers: %w", err)
	}
	return vouchers, nil
}
