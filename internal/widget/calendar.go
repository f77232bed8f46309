package widget

import (
	"slices"
	"time"
)

// DefaultDateFormat renders the trigger label of a date picker.
const DefaultDateFormat = "Jan 2, 2006"

// CalendarOptions is the JSON carried by data-calendar. Dates use the
// ISO-8601 calendar date form and Format is a Go time layout.
type CalendarOptions struct {
	WeekStartsOn     int    `json:"weekStartsOn"`
	Min              string `json:"min,omitempty"`
	Max              string `json:"max,omitempty"`
	Format           string `json:"format,omitempty"`
	DisabledWeekdays []int  `json:"disabledWeekdays,omitempty"`
}

// Calendar holds resolved calendar options. Zero Min and Max leave that
// end unbounded.
type Calendar struct {
	WeekStart time.Weekday
	Min       time.Time
	Max       time.Time
	Format    string
	Disabled  []time.Weekday
}

// Resolve validates the options, dropping anything malformed.
func (o CalendarOptions) Resolve() Calendar {
	cal := Calendar{Format: o.Format}
	if o.WeekStartsOn >= 0 && o.WeekStartsOn < 7 {
		cal.WeekStart = time.Weekday(o.WeekStartsOn)
	}
	if d, ok := ParseDate(o.Min); ok {
		cal.Min = d
	}
	if d, ok := ParseDate(o.Max); ok {
		cal.Max = d
	}
	if !cal.Min.IsZero() && !cal.Max.IsZero() && cal.Max.Before(cal.Min) {
		cal.Min, cal.Max = cal.Max, cal.Min
	}
	if cal.Format == "" {
		cal.Format = DefaultDateFormat
	}
	for _, wd := range o.DisabledWeekdays {
		if wd >= 0 && wd < 7 {
			cal.Disabled = append(cal.Disabled, time.Weekday(wd))
		}
	}
	return cal
}

// ParseDate parses an ISO-8601 calendar date into a UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// civil drops the clock and zone of t, keeping its calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// addMonths moves t by n months, clamping the day to the target month.
func addMonths(t time.Time, n int) time.Time {
	first := monthOf(t).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(t.Day(), last)-1)
}

// Allowed reports whether day is within bounds and not on a disabled
// weekday.
func (c Calendar) Allowed(day time.Time) bool {
	if !c.Min.IsZero() && day.Before(c.Min) {
		return false
	}
	if !c.Max.IsZero() && day.After(c.Max) {
		return false
	}
	return !slices.Contains(c.Disabled, day.Weekday())
}

// Clamp brings day within Min and Max.
func (c Calendar) Clamp(day time.Time) time.Time {
	if !c.Min.IsZero() && day.Before(c.Min) {
		return c.Min
	}
	if !c.Max.IsZero() && day.After(c.Max) {
		return c.Max
	}
	return day
}

// Weeks returns the rows of the month grid: whole weeks starting on
// WeekStart that cover every day of month.
func (c Calendar) Weeks(month time.Time) [][]time.Time {
	first := monthOf(month)
	start := first.AddDate(0, 0, -c.offset(first))
	last := first.AddDate(0, 1, -1)
	var weeks [][]time.Time
	for day := start; !day.After(last); {
		week := make([]time.Time, 7)
		for i := range week {
			week[i] = day
			day = day.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// Weekdays returns the column order.
func (c Calendar) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 7)
	for i := range out {
		out[i] = (c.WeekStart + time.Weekday(i)) % 7
	}
	return out
}

// offset is the column of day in a week starting on WeekStart.
func (c Calendar) offset(day time.Time) int {
	return (int(day.Weekday()) - int(c.WeekStart) + 7) % 7
}
