package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rewards-workers/internal/personalization/proximity"
	"rewards-workers/internal/personalization/scoring"
)

// ToCalendar converts the configured calendar. Empty lists fall back to the
// corresponding part of the default calendar.
func (r RankingConfig) ToCalendar() (scoring.Calendar, error) {
	cal := scoring.DefaultCalendar()

	if len(r.Calendar.WeekendDays) > 0 {
		days := make([]time.Weekday, 0, len(r.Calendar.WeekendDays))
		for _, name := range r.Calendar.WeekendDays {
			d, err := parseWeekday(name)
			if err != nil {
				return scoring.Calendar{}, err
			}
			days = append(days, d)
		}
		cal.WeekendDays = days
	}

	if len(r.Calendar.SummerMonths) > 0 {
		months := make([]time.Month, 0, len(r.Calendar.SummerMonths))
		for _, name := range r.Calendar.SummerMonths {
			m, err := parseMonth(name)
			if err != nil {
				return scoring.Calendar{}, err
			}
			months = append(months, m)
		}
		cal.SummerMonths = months
	}

	if len(r.Calendar.HolidayWindows) > 0 {
		windows := make([]scoring.MonthWindow, 0, len(r.Calendar.HolidayWindows))
		for _, w := range r.Calendar.HolidayWindows {
			start, err := parseMonth(w.Start)
			if err != nil {
				return scoring.Calendar{}, err
			}
			end, err := parseMonth(w.End)
			if err != nil {
				return scoring.Calendar{}, err
			}
			windows = append(windows, scoring.MonthWindow{Start: start, End: end})
		}
		cal.HolidayWindows = windows
	}

	return cal, nil
}

// Location loads the ranking time zone; empty means UTC.
func (r RankingConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(r.Timezone)
}

// AliasOverrides merges the built-in merchant overrides with configured ones.
// Configured entries win.
func (p ProximityConfig) AliasOverrides() map[string]string {
	overrides := proximity.DefaultOverrides()
	for _, e := range p.MerchantAliases {
		if e.Merchant != "" && e.BusinessID != "" {
			overrides[e.Merchant] = e.BusinessID
		}
	}
	return overrides
}

func parseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || (len(n) >= 3 && strings.HasPrefix(full, n)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

func parseMonth(name string) (time.Month, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if i, err := strconv.Atoi(n); err == nil {
		if i < 1 || i > 12 {
			return 0, fmt.Errorf("month %d out of range", i)
		}
		return time.Month(i), nil
	}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if n == full || (len(n) >= 3 && strings.HasPrefix(full, n)) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", name)
}
