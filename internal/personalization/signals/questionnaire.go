package signals

import (
	"sort"
	"strings"
	"unicode"

	"rewards-workers/internal/models"
)

// Questionnaire holds the normalized answers of the onboarding questionnaire.
// A nil field means the question was not answered or the answer was not
// recognised.
type Questionnaire struct {
	SpendingFocus         *models.SpendingFocus
	DealPreference        *models.DealPreference
	NotificationFrequency *models.NotificationFrequency
}

// canonicalKeys are the camelCase spellings used by job variables. They win
// over any other spelling of the same question.
var canonicalKeys = map[string]bool{
	"spendingFocus":         true,
	"dealPreference":        true,
	"notificationFrequency": true,
}

// ParseQuestionnaire normalizes raw answers. Keys and values are accepted in
// camelCase or snake_case; unknown keys and values are ignored. When a question
// is answered under several spellings, the camelCase key is tried first and
// the rest follow in lexical order; the first recognised answer is kept.
func ParseQuestionnaire(raw map[string]string) Questionnaire {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := canonicalKeys[keys[i]], canonicalKeys[keys[j]]
		if ci != cj {
			return ci
		}
		return keys[i] < keys[j]
	})

	var q Questionnaire
	for _, key := range keys {
		v := normalize(raw[key])
		if v == "" {
			continue
		}
		switch normalize(key) {
		case "spending_focus":
			if f := models.SpendingFocus(v); q.SpendingFocus == nil && f.Valid() {
				q.SpendingFocus = &f
			}
		case "deal_preference":
			if p := models.DealPreference(v); q.DealPreference == nil && p.Valid() {
				q.DealPreference = &p
			}
		case "notification_frequency":
			if n := models.NotificationFrequency(v); q.NotificationFrequency == nil && n.Valid() {
				q.NotificationFrequency = &n
			}
		}
	}
	return q
}

// normalize converts "dealPreference", "deal-preference" and " Deal_Preference "
// to "deal_preference".
func normalize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	var prev rune
	for _, r := range s {
		switch {
		case r == '-' || r == ' ':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
