// Package calendar parses the date cells found in the extracts.
package calendar

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Parse parses a date cell. Zone-less values are read as UTC. ok is false
// for empty or unrecognized input.
func Parse(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AgeAt returns the age in whole years on day ref of someone born on birth.
// ok is false when birth is after ref.
func AgeAt(birth, ref time.Time) (age int, ok bool) {
	if birth.After(ref) {
		return 0, false
	}
	age = ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age, true
}

// DurationDays returns end-start in fractional days. ok is false when end precedes start.
func DurationDays(start, end time.Time) (days float64, ok bool) {
	if end.Before(start) {
		return 0, false
	}
	return end.Sub(start).Hours() / 24, true
}
