package proximity

import (
	"time"

	"rewards-workers/internal/models"
)

// IsOpenAt reports whether b is open during the given hour of the day.
// Missing hours, or equal open and close hours, mean always open. A close
// hour before the open hour wraps past midnight.
func IsOpenAt(b models.Branch, hour int) bool {
	if b.OpenHour == nil || b.CloseHour == nil {
		return true
	}
	opens, closes := *b.OpenHour, *b.CloseHour
	switch {
	case opens == closes:
		return true
	case opens < closes:
		return hour >= opens && hour < closes
	default:
		return hour >= opens || hour < closes
	}
}

// OpenNow evaluates IsOpenAt for the hour of t in t's location.
func OpenNow(b models.Branch, t time.Time) bool {
	return IsOpenAt(b, t.Hour())
}
