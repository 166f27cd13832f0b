package signals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-workers/internal/models"
)

var fixedNow = time.Date(2024, time.July, 10, 13, 0, 0, 0, time.UTC)

func focus(f models.SpendingFocus) *models.SpendingFocus { return &f }
func pref(p models.DealPreference) *models.DealPreference { return &p }
func freq(n models.NotificationFrequency) *models.NotificationFrequency { return &n }

func purchase(merchant string, category models.Category) models.UserVoucher {
	return models.UserVoucher{
		ID:     merchant + "-" + string(category),
		UserID: "user-1",
		Voucher: models.Voucher{
			ID:           "v-" + merchant,
			MerchantName: merchant,
			Category:     category,
		},
		Status: models.PurchaseStatusUsed,
	}
}

// ==========================
// ParseQuestionnaire
// ==========================

func TestParseQuestionnaire(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]string
		expected Questionnaire
	}{
		{
			name: "camelCase keys",
			raw: map[string]string{
				"spendingFocus":         "food",
				"dealPreference":        "big_discount",
				"notificationFrequency": "weekly",
			},
			expected: Questionnaire{
				SpendingFocus:         focus(models.SpendingFocusFood),
				DealPreference:        pref(models.DealPreferenceBigDiscount),
				NotificationFrequency: freq(models.NotificationWeekly),
			},
		},
		{
			name: "snake_case keys and camelCase values",
			raw: map[string]string{
				"spending_focus":  "entertainment",
				"deal_preference": "premiumBrands",
			},
			expected: Questionnaire{
				SpendingFocus:  focus(models.SpendingFocusEntertainment),
				DealPreference: pref(models.DealPreferencePremiumBrands),
			},
		},
		{
			name: "unknown values are dropped",
			raw: map[string]string{
				"spendingFocus":  "gardening",
				"dealPreference": "",
				"favouriteColor": "blue",
			},
			expected: Questionnaire{},
		},
		{
			name: "camelCase wins over snake_case",
			raw: map[string]string{
				"spendingFocus":   "food",
				"spending_focus":  "health",
				"deal_preference": "new_experiences",
				"deal-preference": "everyday_savings",
			},
			expected: Questionnaire{
				SpendingFocus:  focus(models.SpendingFocusFood),
				DealPreference: pref(models.DealPreferenceEverydaySavings),
			},
		},
		{
			name: "unrecognised camelCase answer falls back to snake_case",
			raw: map[string]string{
				"spendingFocus":  "gardening",
				"spending_focus": "health",
			},
			expected: Questionnaire{
				SpendingFocus: focus(models.SpendingFocusHealth),
			},
		},
		{
			name:     "nil map",
			raw:      nil,
			expected: Questionnaire{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseQuestionnaire(tt.raw))
		})
	}
}

func TestParseQuestionnaire_ConflictingSpellingsAreStable(t *testing.T) {
	raw := map[string]string{
		"spendingFocus":          "food",
		"spending_focus":         "health",
		"notification_frequency": "daily",
		"notificationFrequency":  "weekly",
	}
	for i := 0; i < 200; i++ {
		q := ParseQuestionnaire(raw)
		require.NotNil(t, q.SpendingFocus)
		require.NotNil(t, q.NotificationFrequency)
		assert.Equal(t, models.SpendingFocusFood, *q.SpendingFocus)
		assert.Equal(t, models.NotificationWeekly, *q.NotificationFrequency)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "deal_preference", normalize("dealPreference"))
	assert.Equal(t, "deal_preference", normalize(" Deal_Preference "))
	assert.Equal(t, "deal_preference", normalize("deal-preference"))
	assert.Equal(t, "big_discount", normalize("BIG_DISCOUNT"))
}

// ==========================
// Build
// ==========================

func TestBuild_QuestionnaireOverridesProfileFieldByField(t *testing.T) {
	user := &models.User{
		ID: "user-1",
		Preferences: models.Preferences{
			SpendingFocus:  focus(models.SpendingFocusShopping),
			DealPreference: pref(models.DealPreferenceEverydaySavings),
		},
	}
	answers := ParseQuestionnaire(map[string]string{"spendingFocus": "health"})

	s := Build(user, nil, answers, nil, fixedNow)

	require.NotNil(t, s.SpendingFocus)
	assert.Equal(t, models.SpendingFocusHealth, *s.SpendingFocus)
	require.NotNil(t, s.DealPreference)
	assert.Equal(t, models.DealPreferenceEverydaySavings, *s.DealPreference)
	assert.Nil(t, s.NotificationFrequency)
}

func TestBuild_AnonymousUser(t *testing.T) {
	s := Build(nil, nil, Questionnaire{}, nil, fixedNow)

	assert.Nil(t, s.SpendingFocus)
	assert.Nil(t, s.DealPreference)
	assert.Nil(t, s.Enrichment)
	assert.Empty(t, s.PurchaseHistory)
	assert.NotNil(t, s.PurchasedCategories)
	assert.NotNil(t, s.PurchasedMerchants)
	assert.Equal(t, fixedNow, s.CurrentTime)
}

func TestBuild_PurchaseCountsFoldHistory(t *testing.T) {
	history := []models.UserVoucher{
		purchase("Aroma", models.CategoryFood),
		purchase("Aroma", models.CategoryFood),
		purchase("Castro", models.CategoryShopping),
		purchase("Cinema City", models.CategoryEntertainment),
	}

	s := Build(nil, history, Questionnaire{}, nil, fixedNow)

	assert.Equal(t, 2, s.PurchasedCategories[models.CategoryFood])
	assert.Equal(t, 1, s.PurchasedCategories[models.CategoryShopping])
	assert.Equal(t, 2, s.PurchasedMerchants["Aroma"])

	var catTotal, merchantTotal int
	for _, n := range s.PurchasedCategories {
		catTotal += n
	}
	for _, n := range s.PurchasedMerchants {
		merchantTotal += n
	}
	assert.Equal(t, len(history), catTotal)
	assert.Equal(t, len(history), merchantTotal)
}

func TestMemoryEnrichment_Lookup(t *testing.T) {
	store := MemoryEnrichment{
		"user-1": {UserID: "user-1", Interests: []string{"cooking"}, IncomeLevel: models.IncomeHigh},
	}

	found, err := store.Lookup(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.IncomeHigh, found.IncomeLevel)

	missing, err := store.Lookup(context.Background(), "USER-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
