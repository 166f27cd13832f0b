// Package personalization holds the pieces shared by the personalization
// workers: catalog decoding and the signal loader.
package personalization

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"rewards-workers/internal/common/errors"
	"rewards-workers/internal/common/logger"
	"rewards-workers/internal/models"
	"rewards-workers/internal/repository"
)

// CatalogRecord is a voucher as it arrives in job variables. ValidUntil is
// kept as text so that one bad timestamp only drops its own record.
type CatalogRecord struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	TitleHe         string  `json:"titleHe,omitempty"`
	MerchantName    string  `json:"merchantName"`
	Category        string  `json:"category"`
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	ValidUntil      string  `json:"validUntil"`
	InStock         bool    `json:"inStock"`
	Popular         bool    `json:"popular"`
}

var expiryLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseExpiry accepts RFC 3339 timestamps and bare dates (midnight UTC).
func ParseExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable expiry %q", s)
}

// DecodeCatalog converts records to vouchers. Records without an id or with
// an unparseable expiry are dropped and counted in skipped.
func DecodeCatalog(records []CatalogRecord, log logger.Logger) (vouchers []models.Voucher, skipped int) {
	vouchers = make([]models.Voucher, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			skipped++
			log.Warn("catalog record without id skipped", map[string]interface{}{"title": r.Title})
			continue
		}
		expiry, err := ParseExpiry(r.ValidUntil)
		if err != nil {
			skipped++
			log.Warn("catalog record with malformed expiry skipped", map[string]interface{}{
				"voucherId":  r.ID,
				"validUntil": r.ValidUntil,
			})
			continue
		}
		vouchers = append(vouchers, models.Voucher{
			ID:              r.ID,
			Title:           r.Title,
			TitleHe:         r.TitleHe,
			MerchantName:    r.MerchantName,
			Category:        models.Category(strings.ToLower(strings.TrimSpace(r.Category))),
			OriginalPrice:   r.OriginalPrice,
			DiscountedPrice: r.DiscountedPrice,
			DiscountPercent: r.DiscountPercent,
			ValidUntil:      expiry,
			InStock:         r.InStock,
			Popular:         r.Popular,
		})
	}
	return vouchers, skipped
}

// CatalogLoader resolves the catalog for a job: inline records when the job
// carries them, the configured source otherwise.
type CatalogLoader struct {
	Source     repository.CatalogSource
	SourceName string
	Log        logger.Logger
}

// Load returns the catalog and the number of inline records that were
// skipped. A nil inline slice means "use the source"; an empty one is an
// empty catalog.
func (l CatalogLoader) Load(ctx context.Context, inline []CatalogRecord, now time.Time) ([]models.Voucher, int, error) {
	if inline != nil {
		vouchers, skipped := DecodeCatalog(inline, l.Log)
		return vouchers, skipped, nil
	}
	if l.Source == nil {
		return nil, 0, errors.NewInvalidInputError("catalog is required when no catalog source is configured")
	}
	vouchers, err := l.Source.ActiveVouchers(ctx, now)
	switch {
	case stderrors.Is(err, repository.ErrIndexNotFound):
		return nil, 0, errors.NewIndexNotFoundError(l.SourceName)
	case err != nil:
		return nil, 0, errors.NewCatalogLoadFailedError(l.SourceName, err)
	}
	return vouchers, 0, nil
}
