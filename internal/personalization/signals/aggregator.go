// Package signals folds a user's profile, questionnaire answers, purchase
// history and enrichment record into the UserSignals snapshot consumed by
// the scoring engine.
package signals

import (
	"context"
	"time"

	"rewards-workers/internal/models"
)

// EnrichmentStore looks up third-party enrichment by exact user id. A
// missing record is (nil, nil).
type EnrichmentStore interface {
	Lookup(ctx context.Context, userID string) (*models.EnrichmentData, error)
}

// MemoryEnrichment is an in-memory EnrichmentStore.
type MemoryEnrichment map[string]models.EnrichmentData

func (m MemoryEnrichment) Lookup(_ context.Context, userID string) (*models.EnrichmentData, error) {
	data, ok := m[userID]
	if !ok {
		return nil, nil
	}
	return &data, nil
}

// Build assembles UserSignals. user, purchases and enrichment may all be nil.
// Questionnaire answers take precedence over the stored profile field by
// field. now becomes the snapshot's CurrentTime.
func Build(user *models.User, purchases []models.UserVoucher, answers Questionnaire, enrichment *models.EnrichmentData, now time.Time) models.UserSignals {
	s := models.UserSignals{
		PurchaseHistory:     purchases,
		PurchasedCategories: make(map[models.Category]int),
		PurchasedMerchants:  make(map[string]int),
		Enrichment:          enrichment,
		CurrentTime:         now,
	}
	if s.PurchaseHistory == nil {
		s.PurchaseHistory = []models.UserVoucher{}
	}

	if user != nil {
		s.SpendingFocus = user.Preferences.SpendingFocus
		s.DealPreference = user.Preferences.DealPreference
		s.NotificationFrequency = user.Preferences.NotificationFrequency
	}
	if answers.SpendingFocus != nil {
		s.SpendingFocus = answers.SpendingFocus
	}
	if answers.DealPreference != nil {
		s.DealPreference = answers.DealPreference
	}
	if answers.NotificationFrequency != nil {
		s.NotificationFrequency = answers.NotificationFrequency
	}

	for _, p := range s.PurchaseHistory {
		s.PurchasedCategories[p.Voucher.Category]++
		s.PurchasedMerchants[p.Voucher.MerchantName]++
	}

	return s
}
