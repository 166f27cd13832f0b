package scoring

import (
	"math"
	"strings"
	"time"

	"rewards-workers/internal/models"
)

const neutral = 0.5

var focusCategories = map[models.SpendingFocus][]models.Category{
	models.SpendingFocusFood:          {models.CategoryFood},
	models.SpendingFocusShopping:      {models.CategoryShopping},
	models.SpendingFocusEntertainment: {models.CategoryEntertainment},
	models.SpendingFocusHealth:        {models.CategoryHealth},
}

// relatedCategories grants partial credit to neighbours of a focus
// category. The graph is intentionally not symmetric (tech lists education,
// education does not list tech).
var relatedCategories = map[models.Category][]models.Category{
	models.CategoryFood:          {models.CategoryHealth},
	models.CategoryShopping:      {models.CategoryTech},
	models.CategoryEntertainment: {models.CategoryTravel, models.CategoryEducation},
	models.CategoryHealth:        {models.CategoryFood},
	models.CategoryTravel:        {models.CategoryEntertainment},
	models.CategoryEducation:     {models.CategoryEntertainment},
	models.CategoryTech:          {models.CategoryEducation, models.CategoryShopping},
}

var interestCategories = map[string]models.Category{
	"food":       models.CategoryFood,
	"cooking":    models.CategoryFood,
	"dining":     models.CategoryFood,
	"coffee":     models.CategoryFood,
	"fashion":    models.CategoryShopping,
	"shopping":   models.CategoryShopping,
	"movies":     models.CategoryEntertainment,
	"music":      models.CategoryEntertainment,
	"gaming":     models.CategoryEntertainment,
	"theater":    models.CategoryEntertainment,
	"travel":     models.CategoryTravel,
	"fitness":    models.CategoryHealth,
	"sports":     models.CategoryHealth,
	"wellness":   models.CategoryHealth,
	"learning":   models.CategoryEducation,
	"books":      models.CategoryEducation,
	"technology": models.CategoryTech,
	"gadgets":    models.CategoryTech,
}

func contains(set []models.Category, c models.Category) bool {
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}

func scoreCategoryMatch(v models.Voucher, s models.UserSignals) float64 {
	if s.SpendingFocus == nil {
		return neutral
	}
	primary := focusCategories[*s.SpendingFocus]
	if contains(primary, v.Category) {
		return 1.0
	}
	for _, p := range primary {
		if contains(relatedCategories[p], v.Category) {
			return 0.5
		}
	}
	return 0.1
}

func scoreDealPreference(v models.Voucher, s models.UserSignals) float64 {
	if s.DealPreference == nil {
		return neutral
	}
	switch *s.DealPreference {
	case models.DealPreferenceBigDiscount:
		switch {
		case v.DiscountPercent >= 30:
			return 1.0
		case v.DiscountPercent >= 20:
			return 0.7
		case v.DiscountPercent >= 10:
			return 0.4
		default:
			return 0.2
		}
	case models.DealPreferenceNewExperiences:
		if contains([]models.Category{models.CategoryEntertainment, models.CategoryTravel, models.CategoryEducation}, v.Category) {
			return 1.0
		}
		return 0.3
	case models.DealPreferenceEverydaySavings:
		if contains([]models.Category{models.CategoryFood, models.CategoryShopping, models.CategoryHealth}, v.Category) {
			if v.DiscountedPrice <= 100 {
				return 1.0
			}
			return 0.7
		}
		return 0.3
	case models.DealPreferencePremiumBrands:
		switch {
		case v.OriginalPrice >= 150:
			return 1.0
		case v.OriginalPrice >= 80:
			return 0.6
		default:
			return 0.3
		}
	}
	return neutral
}

func scorePurchaseHistory(v models.Voucher, s models.UserSignals) float64 {
	total := len(s.PurchaseHistory)
	if total == 0 {
		return neutral
	}
	merchant := 0.5 * math.Min(float64(s.PurchasedMerchants[v.MerchantName])/3, 1)
	category := 0.5 * math.Min(float64(s.PurchasedCategories[v.Category])/float64(total), 1)
	return math.Min(merchant+category, 1)
}

func scoreTimeOfDay(v models.Voucher, now time.Time) float64 {
	if contains(slotAffinity[SlotForHour(now.Hour())], v.Category) {
		return 1.0
	}
	return 0.3
}

func scoreCalendar(v models.Voucher, now time.Time, cal Calendar) float64 {
	score := neutral
	if cal.IsWeekend(now) && contains([]models.Category{models.CategoryEntertainment, models.CategoryFood, models.CategoryTravel}, v.Category) {
		score += 0.3
	}
	if cal.IsSummer(now) && v.Category == models.CategoryTravel {
		score += 0.3
	}
	if cal.IsHolidaySeason(now) && (v.Category == models.CategoryFood || v.Category == models.CategoryShopping) {
		score += 0.2
	}
	return math.Min(score, 1)
}

func scorePopularity(v models.Voucher) float64 {
	if v.Popular {
		return 1.0
	}
	return 0.3
}

func scoreEnrichment(v models.Voucher, e *models.EnrichmentData) float64 {
	if e == nil {
		return neutral
	}
	score := neutral
	for _, interest := range e.Interests {
		if c, ok := interestCategories[strings.ToLower(strings.TrimSpace(interest))]; ok && c == v.Category {
			score += 0.2
		}
	}
	if (e.IncomeLevel == models.IncomeHigh && v.OriginalPrice >= 150) ||
		(e.IncomeLevel == models.IncomeLow && v.DiscountPercent >= 25) {
		score += 0.1
	}
	return math.Min(score, 1)
}

// daysRemaining counts started days until validUntil.
func daysRemaining(validUntil, now time.Time) int {
	return int(math.Ceil(validUntil.Sub(now).Hours() / 24))
}

func scoreExpirationUrgency(v models.Voucher, now time.Time) float64 {
	days := daysRemaining(v.ValidUntil, now)
	switch {
	case days <= 0:
		return 0
	case days <= 7:
		return 1.0
	case days <= 30:
		return 0.7
	case days <= 90:
		return 0.4
	default:
		return 0.2
	}
}
