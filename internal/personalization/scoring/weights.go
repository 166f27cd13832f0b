package scoring

import "fmt"

// Weights scales each sub-score in the relevance sum. Weights is a value
// type; engines copy it on construction.
type Weights struct {
	CategoryMatch        float64 `json:"categoryMatch" mapstructure:"category_match"`
	DealPreferenceMatch  float64 `json:"dealPreferenceMatch" mapstructure:"deal_preference_match"`
	PurchaseHistoryBoost float64 `json:"purchaseHistoryBoost" mapstructure:"purchase_history_boost"`
	TimeOfDayRelevance   float64 `json:"timeOfDayRelevance" mapstructure:"time_of_day_relevance"`
	CalendarRelevance    float64 `json:"calendarRelevance" mapstructure:"calendar_relevance"`
	PopularitySignal     float64 `json:"popularitySignal" mapstructure:"popularity_signal"`
	EnrichmentMatch      float64 `json:"enrichmentMatch" mapstructure:"enrichment_match"`
	ExpirationUrgency    float64 `json:"expirationUrgency" mapstructure:"expiration_urgency"`
}

// DefaultWeights returns the reference tuning. The weights sum to 1.0.
func DefaultWeights() Weights {
	return Weights{
		CategoryMatch:        0.25,
		DealPreferenceMatch:  0.20,
		PurchaseHistoryBoost: 0.15,
		TimeOfDayRelevance:   0.10,
		CalendarRelevance:    0.05,
		PopularitySignal:     0.10,
		EnrichmentMatch:      0.10,
		ExpirationUrgency:    0.05,
	}
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	for _, f := range w.fields() {
		if f.value < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %v", f.name, f.value)
		}
	}
	return nil
}

// Sum returns the total of all eight weights.
func (w Weights) Sum() float64 {
	var total float64
	for _, f := range w.fields() {
		total += f.value
	}
	return total
}

type namedWeight struct {
	name  string
	value float64
}

func (w Weights) fields() []namedWeight {
	return []namedWeight{
		{"categoryMatch", w.CategoryMatch},
		{"dealPreferenceMatch", w.DealPreferenceMatch},
		{"purchaseHistoryBoost", w.PurchaseHistoryBoost},
		{"timeOfDayRelevance", w.TimeOfDayRelevance},
		{"calendarRelevance", w.CalendarRelevance},
		{"popularitySignal", w.PopularitySignal},
		{"enrichmentMatch", w.EnrichmentMatch},
		{"expirationUrgency", w.ExpirationUrgency},
	}
}

// Override returns a copy of w with the named weights replaced. Names are
// the JSON field names; unknown names and negative values are rejected.
func (w Weights) Override(values map[string]float64) (Weights, error) {
	for name, v := range values {
		p := w.field(name)
		if p == nil {
			return Weights{}, fmt.Errorf("unknown weight %q", name)
		}
		*p = v
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

func (w *Weights) field(name string) *float64 {
	switch name {
	case "categoryMatch":
		return &w.CategoryMatch
	case "dealPreferenceMatch":
		return &w.DealPreferenceMatch
	case "purchaseHistoryBoost":
		return &w.PurchaseHistoryBoost
	case "timeOfDayRelevance":
		return &w.TimeOfDayRelevance
	case "calendarRelevance":
		return &w.CalendarRelevance
	case "popularitySignal":
		return &w.PopularitySignal
	case "enrichmentMatch":
		return &w.EnrichmentMatch
	case "expirationUrgency":
		return &w.ExpirationUrgency
	}
	return nil
}
