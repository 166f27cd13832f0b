package rankvouchers

import (
	"time"

	"rewards-workers/internal/models"
	"rewards-workers/internal/workers/personalization"
)

type Input struct {
	UserID        string                          `json:"userId,omitempty"`
	Questionnaire map[string]string               `json:"questionnaire,omitempty"`
	Catalog       []personalization.CatalogRecord `json:"catalog,omitempty"`
	MaxResults    int                             `json:"maxResults,omitempty"`
	Weights       map[string]float64              `json:"weights,omitempty"`
}

type Output struct {
	RequestID       string           `json:"requestId"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Recommendations []Recommendation `json:"recommendations"`
	EligibleCount   int              `json:"eligibleCount"`
	CatalogCount    int              `json:"catalogCount"`
	SkippedRecords  int              `json:"skippedRecords"`
}

type Recommendation struct {
	VoucherID       string                `json:"voucherId"`
	Title           string                `json:"title"`
	TitleHe         string                `json:"titleHe,omitempty"`
	MerchantName    string                `json:"merchantName"`
	Category        models.Category       `json:"category"`
	DiscountPercent float64               `json:"discountPercent"`
	ValidUntil      time.Time             `json:"validUntil"`
	RelevanceScore  float64               `json:"relevanceScore"`
	ScoreBreakdown  models.ScoreBreakdown `json:"scoreBreakdown"`
	Reason          string                `json:"reason"`
	ReasonHe        string                `json:"reasonHe"`
}

func toRecommendation(s models.ScoredVoucher) Recommendation {
	return Recommendation{
		VoucherID:       s.Voucher.ID,
		Title:           s.Voucher.Title,
		TitleHe:         s.Voucher.TitleHe,
		MerchantName:    s.Voucher.MerchantName,
		Category:        s.Voucher.Category,
		DiscountPercent: s.Voucher.DiscountPercent,
		ValidUntil:      s.Voucher.ValidUntil,
		RelevanceScore:  s.RelevanceScore,
		ScoreBreakdown:  s.ScoreBreakdown,
		Reason:          s.Reason,
		ReasonHe:        s.ReasonHe,
	}
}
