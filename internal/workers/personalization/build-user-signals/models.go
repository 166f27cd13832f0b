package buildusersignals

import (
	"time"

	"rewards-workers/internal/models"
)

type Input struct {
	UserID        string            `json:"userId"`
	Questionnaire map[string]string `json:"questionnaire,omitempty"`
}

type Output struct {
	Signals Signals `json:"signals"`
}

// Signals is the process-variable view of models.UserSignals. Purchase
// records are summarized rather than copied into the process instance.
type Signals struct {
	UserID                string                        `json:"userId"`
	ProfileFound          bool                          `json:"profileFound"`
	SpendingFocus         *models.SpendingFocus         `json:"spendingFocus,omitempty"`
	DealPreference        *models.DealPreference        `json:"dealPreference,omitempty"`
	NotificationFrequency *models.NotificationFrequency `json:"notificationFrequency,omitempty"`
	PurchaseCount         int                           `json:"purchaseCount"`
	PurchasedCategories   map[models.Category]int       `json:"purchasedCategories"`
	PurchasedMerchants    map[string]int                `json:"purchasedMerchants"`
	HasEnrichment         bool                          `json:"hasEnrichment"`
	Enrichment            *models.EnrichmentData        `json:"enrichment,omitempty"`
	CurrentTime           time.Time                     `json:"currentTime"`
}

func toSignals(userID string, user *models.User, s models.UserSignals) Signals {
	return Signals{
		UserID:                userID,
		ProfileFound:          user != nil,
		SpendingFocus:         s.SpendingFocus,
		DealPreference:        s.DealPreference,
		NotificationFrequency: s.NotificationFrequency,
		PurchaseCount:         len(s.PurchaseHistory),
		PurchasedCategories:   s.PurchasedCategories,
		PurchasedMerchants:    s.PurchasedMerchants,
		HasEnrichment:         s.Enrichment != nil,
		Enrichment:            s.Enrichment,
		CurrentTime:           s.CurrentTime,
	}
}
