package models

import "time"

// UserSignals is the per-request snapshot every scorer reads from.
type UserSignals struct {
	SpendingFocus         *SpendingFocus         `json:"spendingFocus,omitempty"`
	DealPreference        *DealPreference        `json:"dealPreference,omitempty"`
	NotificationFrequency *NotificationFrequency `json:"notificationFrequency,omitempty"`
	PurchaseHistory       []UserVoucher          `json:"purchaseHistory"`
	PurchasedCategories   map[Category]int       `json:"purchasedCategories"`
	PurchasedMerchants    map[string]int         `json:"purchasedMerchants"`
	Enrichment            *EnrichmentData        `json:"enrichment,omitempty"`
	CurrentTime           time.Time              `json:"currentTime"`
}

// ScoreBreakdown holds the eight raw sub-scores, each in [0,1].
type ScoreBreakdown struct {
	CategoryMatch        float64 `json:"categoryMatch"`
	DealPreferenceMatch  float64 `json:"dealPreferenceMatch"`
	PurchaseHistoryBoost float64 `json:"purchaseHistoryBoost"`
	TimeOfDayRelevance   float64 `json:"timeOfDayRelevance"`
	CalendarRelevance    float64 `json:"calendarRelevance"`
	PopularitySignal     float64 `json:"popularitySignal"`
	EnrichmentMatch      float64 `json:"enrichmentMatch"`
	ExpirationUrgency    float64 `json:"expirationUrgency"`
}

type ScoredVoucher struct {
	Voucher        Voucher        `json:"voucher"`
	RelevanceScore float64        `json:"relevanceScore"`
	ScoreBreakdown ScoreBreakdown `json:"scoreBreakdown"`
	Reason         string         `json:"reason"`
	ReasonHe       string         `json:"reasonHe"`
}
