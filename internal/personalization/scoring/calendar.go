package scoring

import (
	"time"

	"rewards-workers/internal/models"
)

// MonthWindow is an inclusive range of months. A window whose End is before
// its Start wraps over the new year.
type MonthWindow struct {
	Start time.Month `json:"start"`
	End   time.Month `json:"end"`
}

// Contains reports whether m falls inside the window.
func (w MonthWindow) Contains(m time.Month) bool {
	if w.Start <= w.End {
		return m >= w.Start && m <= w.End
	}
	return m >= w.Start || m <= w.End
}

// Calendar holds the market-specific calendar used by calendar relevance.
type Calendar struct {
	WeekendDays    []time.Weekday
	SummerMonths   []time.Month
	HolidayWindows []MonthWindow
}

// DefaultCalendar is the Israeli market calendar: a Friday/Saturday weekend,
// June to August summer and the spring and autumn holiday seasons.
func DefaultCalendar() Calendar {
	return Calendar{
		WeekendDays:  []time.Weekday{time.Friday, time.Saturday},
		SummerMonths: []time.Month{time.June, time.July, time.August},
		HolidayWindows: []MonthWindow{
			{Start: time.March, End: time.April},
			{Start: time.September, End: time.October},
		},
	}
}

func (c Calendar) clone() Calendar {
	return Calendar{
		WeekendDays:    append([]time.Weekday(nil), c.WeekendDays...),
		SummerMonths:   append([]time.Month(nil), c.SummerMonths...),
		HolidayWindows: append([]MonthWindow(nil), c.HolidayWindows...),
	}
}

func (c Calendar) IsWeekend(t time.Time) bool {
	for _, d := range c.WeekendDays {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

func (c Calendar) IsSummer(t time.Time) bool {
	for _, m := range c.SummerMonths {
		if t.Month() == m {
			return true
		}
	}
	return false
}

func (c Calendar) IsHolidaySeason(t time.Time) bool {
	for _, w := range c.HolidayWindows {
		if w.Contains(t.Month()) {
			return true
		}
	}
	return false
}

// TimeSlot is a coarse part of the day.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotLunch     TimeSlot = "lunch"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
	SlotNight     TimeSlot = "night"
)

// SlotForHour buckets an hour of the day.
func SlotForHour(hour int) TimeSlot {
	switch {
	case hour >= 6 && hour < 11:
		return SlotMorning
	case hour >= 11 && hour < 14:
		return SlotLunch
	case hour >= 14 && hour < 18:
		return SlotAfternoon
	case hour >= 18 && hour < 22:
		return SlotEvening
	default:
		return SlotNight
	}
}

var slotAffinity = map[TimeSlot][]models.Category{
	SlotMorning:   {models.CategoryFood, models.CategoryHealth},
	SlotLunch:     {models.CategoryFood, models.CategoryShopping},
	SlotAfternoon: {models.CategoryShopping, models.CategoryEducation, models.CategoryTech},
	SlotEvening:   {models.CategoryFood, models.CategoryEntertainment},
	SlotNight:     {models.CategoryEntertainment, models.CategoryTravel},
}
