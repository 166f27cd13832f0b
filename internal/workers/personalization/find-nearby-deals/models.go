package findnearbydeals

import (
	"time"

	"rewards-workers/internal/models"
	"rewards-workers/internal/personalization/geo"
	"rewards-workers/internal/workers/personalization"
)

type Input struct {
	Latitude    *float64                        `json:"latitude,omitempty"`
	Longitude   *float64                        `json:"longitude,omitempty"`
	MaxResults  int                             `json:"maxResults,omitempty"`
	OpenNowOnly bool                            `json:"openNowOnly,omitempty"`
	RadiusKm    *float64                        `json:"radiusKm,omitempty"`
	Catalog     []personalization.CatalogRecord `json:"catalog,omitempty"`
}

type Output struct {
	Deals          []Deal    `json:"deals"`
	Count          int       `json:"count"`
	GeneratedAt    time.Time `json:"generatedAt"`
	SkippedRecords int       `json:"skippedRecords"`
}

type Deal struct {
	VoucherID       string          `json:"voucherId"`
	Title           string          `json:"title"`
	TitleHe         string          `json:"titleHe,omitempty"`
	MerchantName    string          `json:"merchantName"`
	Category        models.Category `json:"category"`
	DiscountPercent float64         `json:"discountPercent"`
	ValidUntil      time.Time       `json:"validUntil"`
	Branch          models.Branch   `json:"branch"`
	DistanceKm      float64         `json:"distanceKm"`
	DistanceLabel   string          `json:"distanceLabel"`
	DistanceLabelHe string          `json:"distanceLabelHe"`
	OpenNow         bool            `json:"openNow"`
}

func toDeal(d models.NearbyDeal) Deal {
	return Deal{
		VoucherID:       d.Voucher.ID,
		Title:           d.Voucher.Title,
		TitleHe:         d.Voucher.TitleHe,
		MerchantName:    d.Voucher.MerchantName,
		Category:        d.Voucher.Category,
		DiscountPercent: d.Voucher.DiscountPercent,
		ValidUntil:      d.Voucher.ValidUntil,
		Branch:          d.Branch,
		DistanceKm:      d.DistanceKm,
		DistanceLabel:   geo.FormatDistance(d.DistanceKm, geo.LocaleEN),
		DistanceLabelHe: geo.FormatDistance(d.DistanceKm, geo.LocaleHE),
		OpenNow:         d.OpenNow,
	}
}
