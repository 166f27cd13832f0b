// Package scoring ranks a voucher catalog against a user's signals with a
// weighted sum of eight independent heuristic sub-scores.
package scoring

import (
	"math"
	"sort"

	"rewards-workers/internal/models"
)

// DefaultMaxResults is used when a caller passes a non-positive limit.
const DefaultMaxResults = 10

// Engine is safe for concurrent use; it holds only immutable configuration.
type Engine struct {
	weights  Weights
	calendar Calendar
}

func NewEngine(weights Weights, calendar Calendar) *Engine {
	return &Engine{weights: weights, calendar: calendar.clone()}
}

// Weights returns a copy of the engine's weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// WithWeights returns an engine sharing the calendar but scoring with w.
func (e *Engine) WithWeights(w Weights) *Engine {
	return &Engine{weights: w, calendar: e.calendar}
}

// Score computes the eight sub-scores of v. It does not check eligibility.
func (e *Engine) Score(v models.Voucher, s models.UserSignals) models.ScoreBreakdown {
	now := s.CurrentTime
	return models.ScoreBreakdown{
		CategoryMatch:        scoreCategoryMatch(v, s),
		DealPreferenceMatch:  scoreDealPreference(v, s),
		PurchaseHistoryBoost: scorePurchaseHistory(v, s),
		TimeOfDayRelevance:   scoreTimeOfDay(v, now),
		CalendarRelevance:    scoreCalendar(v, now, e.calendar),
		PopularitySignal:     scorePopularity(v),
		EnrichmentMatch:      scoreEnrichment(v, s.Enrichment),
		ExpirationUrgency:    scoreExpirationUrgency(v, now),
	}
}

// Relevance combines a breakdown into a score in [0,100].
func (e *Engine) Relevance(b models.ScoreBreakdown) float64 {
	w := e.weights
	sum := b.CategoryMatch*w.CategoryMatch +
		b.DealPreferenceMatch*w.DealPreferenceMatch +
		b.PurchaseHistoryBoost*w.PurchaseHistoryBoost +
		b.TimeOfDayRelevance*w.TimeOfDayRelevance +
		b.CalendarRelevance*w.CalendarRelevance +
		b.PopularitySignal*w.PopularitySignal +
		b.EnrichmentMatch*w.EnrichmentMatch +
		b.ExpirationUrgency*w.ExpirationUrgency
	return math.Min(100, math.Max(0, 100*sum))
}

// Rank scores every eligible voucher, sorts by relevance descending and
// truncates to maxResults. Equal scores keep catalog order.
func (e *Engine) Rank(catalog []models.Voucher, s models.UserSignals, maxResults int) []models.ScoredVoucher {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	scored := make([]models.ScoredVoucher, 0, len(catalog))
	for _, v := range catalog {
		if !v.EligibleAt(s.CurrentTime) {
			continue
		}
		breakdown := e.Score(v, s)
		reason, reasonHe := explain(v, breakdown)
		scored = append(scored, models.ScoredVoucher{
			Voucher:        v,
			RelevanceScore: e.Relevance(breakdown),
			ScoreBreakdown: breakdown,
			Reason:         reason,
			ReasonHe:       reasonHe,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

// RankVouchers ranks with the default calendar.
func RankVouchers(catalog []models.Voucher, s models.UserSignals, weights Weights, maxResults int) []models.ScoredVoucher {
	return NewEngine(weights, DefaultCalendar()).Rank(catalog, s, maxResults)
}

// CountEligible returns how many catalog entries pass the eligibility filter
// for the snapshot time.
func CountEligible(catalog []models.Voucher, s models.UserSignals) int {
	n := 0
	for _, v := range catalog {
		if v.EligibleAt(s.CurrentTime) {
			n++
		}
	}
	return n
}
