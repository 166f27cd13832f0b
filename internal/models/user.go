package models

type SpendingFocus string

const (
	SpendingFocusFood          SpendingFocus = "food"
	SpendingFocusShopping      SpendingFocus = "shopping"
	SpendingFocusEntertainment SpendingFocus = "entertainment"
	SpendingFocusHealth        SpendingFocus = "health"
)

type DealPreference string

const (
	DealPreferenceBigDiscount     DealPreference = "big_discount"
	DealPreferenceNewExperiences  DealPreference = "new_experiences"
	DealPreferenceEverydaySavings DealPreference = "everyday_savings"
	DealPreferencePremiumBrands   DealPreference = "premium_brands"
)

type NotificationFrequency string

const (
	NotificationInstant NotificationFrequency = "instant"
	NotificationDaily   NotificationFrequency = "daily"
	NotificationWeekly  NotificationFrequency = "weekly"
	NotificationNever   NotificationFrequency = "never"
)

func (f SpendingFocus) Valid() bool {
	switch f {
	case SpendingFocusFood, SpendingFocusShopping, SpendingFocusEntertainment, SpendingFocusHealth:
		return true
	}
	return false
}

func (p DealPreference) Valid() bool {
	switch p {
	case DealPreferenceBigDiscount, DealPreferenceNewExperiences, DealPreferenceEverydaySavings, DealPreferencePremiumBrands:
		return true
	}
	return false
}

func (n NotificationFrequency) Valid() bool {
	switch n {
	case NotificationInstant, NotificationDaily, NotificationWeekly, NotificationNever:
		return true
	}
	return false
}

// Preferences are the personalization answers stored on a profile. Every
// field is optional.
type Preferences struct {
	SpendingFocus         *SpendingFocus         `json:"spendingFocus,omitempty"`
	DealPreference        *DealPreference        `json:"dealPreference,omitempty"`
	NotificationFrequency *NotificationFrequency `json:"notificationFrequency,omitempty"`
}

type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Phone       string      `json:"phone,omitempty"`
	Email       string      `json:"email,omitempty"`
	Preferences Preferences `json:"preferences"`
}

type IncomeLevel string

const (
	IncomeLow    IncomeLevel = "low"
	IncomeMedium IncomeLevel = "medium"
	IncomeHigh   IncomeLevel = "high"
)

// EnrichmentData is the third-party demographic record keyed by user id.
type EnrichmentData struct {
	UserID      string      `json:"userId"`
	Interests   []string    `json:"interests"`
	IncomeLevel IncomeLevel `json:"incomeLevel,omitempty"`
	AgeRange    string      `json:"ageRange,omitempty"`
	Gender      string      `json:"gender,omitempty"`
	City        string      `json:"city,omitempty"`
	HasChildren bool        `json:"hasChildren"`
}
