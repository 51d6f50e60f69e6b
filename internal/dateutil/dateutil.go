// Package dateutil resolves the date arguments accepted on the command line.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be YYYY-MM-DD, today, tomorrow, yesterday or a weekday")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Day returns the calendar date of t, in t's own location, as UTC midnight.
// Days are keyed by calendar date, so every date the CLI hands on is in
// this form.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate resolves s relative to the current local date.
func ParseDate(s string) (time.Time, error) {
	return Resolve(s, time.Now())
}

// Resolve parses a date argument relative to now:
//   - "" or "today"
//   - "tomorrow", "yesterday"
//   - "2025-01-15"
//   - weekday names ("monday"): the next occurrence, never today
//   - "last-monday": the previous occurrence, never today
//
// Input is case-insensitive. Past dates are allowed.
func Resolve(s string, now time.Time) (time.Time, error) {
	today := Day(now)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if name, ok := strings.CutPrefix(input, "last-"); ok {
		target, ok := weekdayMap[name]
		if !ok {
			return time.Time{}, ErrInvalidDateFormat
		}
		return previousWeekday(today, target), nil
	}
	if target, ok := weekdayMap[input]; ok {
		return nextWeekday(today, target), nil
	}

	t, err := time.Parse(time.DateOnly, input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

func nextWeekday(today time.Time, target time.Weekday) time.Time {
	days := int(target) - int(today.Weekday())
	if days <= 0 {
		days += 7
	}
	return today.AddDate(0, 0, days)
}

func previousWeekday(today time.Time, target time.Weekday) time.Time {
	days := int(today.Weekday()) - int(target)
	if days <= 0 {
		days += 7
	}
	return today.AddDate(0, 0, -days)
}

// Range is an inclusive span of calendar dates.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange resolves both ends relative to now. An empty end defaults to the
// start.
func NewRange(from, to string, now time.Time) (Range, error) {
	start, err := Resolve(from, now)
	if err != nil {
		return Range{}, err
	}
	end := start
	if to != "" {
		end, err = Resolve(to, now)
		if err != nil {
			return Range{}, err
		}
	}
	if end.Before(start) {
		return Range{}, ErrEndDateBeforeStart
	}
	return Range{Start: start, End: end}, nil
}

// Days returns the number of dates in the range.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) Range {
	t = Day(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is the last ISO day
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return Range{Start: monday, End: monday.AddDate(0, 0, 6)}
}
