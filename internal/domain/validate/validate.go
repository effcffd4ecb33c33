// Package validate holds the argument validators for time-report commands.
// Every validator is total: it reports false instead of returning an error or panicking.
package validate

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
)

const (
	// Today is the keyword resolved to the current date.
	Today = "today"

	// RangeSeparator splits "start:stop" date ranges.
	RangeSeparator = ":"

	// DefaultMaxRangeDays bounds the inclusive length of a date range.
	DefaultMaxRangeDays = 40

	MinHours = 0
	MaxHours = 8
)

// dateLayouts are the accepted calendar date formats. The whole input must match one.
var dateLayouts = []string{
	entity.DateLayout,
	"20060102",
	"2006/01/02",
}

// ErrInvalidDate is returned when a string is not a calendar date.
var ErrInvalidDate = errors.New("invalid date")

// Reason reports whether reason is in the allow-list. Matching is exact.
func Reason(reason string, allowed []string) bool {
	for _, r := range allowed {
		if r == reason {
			return true
		}
	}
	return false
}

// Hours reports whether hours is a number that rounds into [0, 8].
// Halves round to even, so "8.5" is accepted and "9.5" is not.
func Hours(hours string) bool {
	h, err := strconv.ParseFloat(strings.TrimSpace(hours), 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return false
	}
	rounded := math.RoundToEven(h)
	return rounded >= MinHours && rounded <= MaxHours
}

// ParseHours parses an hours argument and returns it rounded into [0, 8].
func ParseHours(hours string) (float64, error) {
	if !Hours(hours) {
		return 0, errors.New("invalid hours")
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hours), 64)
	if err != nil {
		return 0, err
	}
	rounded := math.RoundToEven(h)
	if rounded == 0 {
		// -0.4 rounds to negative zero.
		return 0, nil
	}
	return rounded, nil
}

// Date reports whether date is a complete calendar date.
// The "today" keyword is not a date; callers resolve it with ResolveDate.
func Date(date string) bool {
	_, err := ParseDate(date)
	return err == nil
}

// ParseDate parses a calendar date in any accepted layout.
func ParseDate(date string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ResolveDate parses date, resolving "today" against now.
func ResolveDate(date string, now time.Time) (time.Time, error) {
	if date == Today {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return ParseDate(date)
}

// SplitRange splits "start:stop". ok is false if s is not a range.
func SplitRange(s string) (start, stop string, ok bool) {
	start, stop, ok = strings.Cut(s, RangeSeparator)
	if !ok || start == "" || stop == "" || strings.Contains(stop, RangeSeparator) {
		return "", "", false
	}
	return start, stop, true
}

// DateRange reports whether start and stop parse under layout, start is not after
// stop and the range covers at most maxDays days, both ends included.
func DateRange(start, stop, layout string, maxDays int) bool {
	s, err := time.Parse(layout, start)
	if err != nil {
		return false
	}
	e, err := time.Parse(layout, stop)
	if err != nil {
		return false
	}
	return RangeWithin(s, e, maxDays)
}

// RangeWithin is DateRange for already parsed dates.
func RangeWithin(start, end time.Time, maxDays int) bool {
	if start.After(end) {
		return false
	}
	return countDays(start, end, maxDays+1) <= maxDays
}

// countDays enumerates calendar days from start to end inclusive,
// stopping early once limit is reached.
func countDays(start, end time.Time, limit int) int {
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		n++
		if n >= limit {
			break
		}
	}
	return n
}

// Days returns every calendar day from start to end inclusive.
func Days(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// CommandArity reports whether the token count lies in [min, max].
func CommandArity(tokens []string, min, max int) bool {
	return len(tokens) >= min && len(tokens) <= max
}
