package scoring

import (
	"fmt"

	"rewards-workers/internal/models"
)

var categoryNamesHe = map[models.Category]string{
	models.CategoryFood:          "אוכל",
	models.CategoryShopping:      "קניות",
	models.CategoryEntertainment: "בילויים",
	models.CategoryTravel:        "טיולים",
	models.CategoryHealth:        "בריאות",
	models.CategoryEducation:     "לימודים",
	models.CategoryTech:          "טכנולוגיה",
}

const (
	fallbackReason   = "Recommended for you"
	fallbackReasonHe = "מומלץ עבורך"
)

type subScore struct {
	name  string
	value float64
}

// ordered lists the sub-scores in their tie-break order.
func ordered(b models.ScoreBreakdown) []subScore {
	return []subScore{
		{"categoryMatch", b.CategoryMatch},
		{"dealPreferenceMatch", b.DealPreferenceMatch},
		{"purchaseHistoryBoost", b.PurchaseHistoryBoost},
		{"timeOfDayRelevance", b.TimeOfDayRelevance},
		{"calendarRelevance", b.CalendarRelevance},
		{"popularitySignal", b.PopularitySignal},
		{"enrichmentMatch", b.EnrichmentMatch},
		{"expirationUrgency", b.ExpirationUrgency},
	}
}

// explain picks the single strongest raw sub-score and renders its canned
// reason. A winner that is only neutral falls back to the generic reason.
func explain(v models.Voucher, b models.ScoreBreakdown) (string, string) {
	top := subScore{value: -1}
	for _, s := range ordered(b) {
		if s.value > top.value {
			top = s
		}
	}
	if top.value <= neutral {
		return fallbackReason, fallbackReasonHe
	}

	switch top.name {
	case "categoryMatch":
		return fmt.Sprintf("Matches your interest in %s", v.Category),
			fmt.Sprintf("מתאים לתחום העניין שלך: %s", categoryNamesHe[v.Category])
	case "dealPreferenceMatch":
		return fmt.Sprintf("Great deal: %.0f%% off", v.DiscountPercent),
			fmt.Sprintf("מבצע משתלם: %.0f%% הנחה", v.DiscountPercent)
	case "purchaseHistoryBoost":
		return fmt.Sprintf("Because you enjoyed %s before", v.MerchantName),
			fmt.Sprintf("כי כבר נהנית מ-%s", v.MerchantName)
	case "timeOfDayRelevance":
		return "Perfect for right now", "מושלם בדיוק לעכשיו"
	case "expirationUrgency":
		return "Expires soon, don't miss it", "התוקף מסתיים בקרוב"
	default:
		return fallbackReason, fallbackReasonHe
	}
}
