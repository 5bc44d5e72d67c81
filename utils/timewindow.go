package utils

import (
	"fmt"
	"time"
)

// DateLayout is the canonical 'YYYY-MM-DD' layout for local calendar dates.
const DateLayout = "2006-01-02"

// ParseClock parses an 'HH:MM' time-of-day string.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// InWindow reports whether the instant falls inside [start, end] inclusive,
// evaluated on the instant's own calendar date. Windows never roll over
// midnight; a window whose end precedes its start is simply never open.
func InWindow(start, end string, at time.Time) (bool, error) {
	sh, sm, err := ParseClock(start)
	if err != nil {
		return false, err
	}
	eh, em, err := ParseClock(end)
	if err != nil {
		return false, err
	}
	loc := at.Location()
	ws := time.Date(at.Year(), at.Month(), at.Day(), sh, sm, 0, 0, loc)
	we := time.Date(at.Year(), at.Month(), at.Day(), eh, em, 0, 0, loc)
	return !at.Before(ws) && !at.After(we), nil
}

// WeekBounds returns the Monday and Sunday calendar dates of the week
// containing the instant, at midnight in the instant's zone. ISO weekday
// numbering: Monday starts the week.
func WeekBounds(at time.Time) (monday, sunday time.Time) {
	offset := (int(at.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	monday = day.AddDate(0, 0, -offset)
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// DateString renders the instant's calendar date in its own zone.
func DateString(at time.Time) string {
	return at.Format(DateLayout)
}
