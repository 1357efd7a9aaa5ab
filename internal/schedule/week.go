// Package schedule computes the calendar weeks shown on the meal schedule.
package schedule

import "time"

const (
	LastWeek = "Last week"
	ThisWeek = "This week"
	NextWeek = "Next week"
)

// Week is a labelled half-open date range [Start, End).
type Week struct {
	Label string
	Start time.Time
	End   time.Time
}

// Date truncates t to its calendar date in t's own location, returned at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FirstDayOfWeek returns the latest date on or before d that falls on first.
func FirstDayOfWeek(d time.Time, first time.Weekday) time.Time {
	day := Date(d)
	offset := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// Window returns last week, this week and next week relative to today, always in that order.
func Window(today time.Time, first time.Weekday) []Week {
	this := FirstDayOfWeek(today, first)
	starts := []struct {
		label string
		start time.Time
	}{
		{LastWeek, this.AddDate(0, 0, -7)},
		{ThisWeek, this},
		{NextWeek, this.AddDate(0, 0, 7)},
	}

	weeks := make([]Week, 0, len(starts))
	for _, s := range starts {
		weeks = append(weeks, Week{Label: s.label, Start: s.start, End: s.start.AddDate(0, 0, 7)})
	}
	return weeks
}
