package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// LoadLocation resolves the app timezone, falling back to a fixed CET offset when tzdata is unavailable.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("CET", 1*60*60)
	}
	return loc
}

// DateKey is the calendar day of t in loc, formatted YYYY-MM-DD.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

func SameDay(a, b time.Time, loc *time.Location) bool {
	return DateKey(a, loc) == DateKey(b, loc)
}

// ParseDateKey validates a YYYY-MM-DD string and returns midnight of that day in loc.
func ParseDateKey(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// Weekday returns 0 (Sunday) .. 6 (Saturday) for a date key.
func Weekday(dateKey string, loc *time.Location) (int, error) {
	t, err := ParseDateKey(dateKey, loc)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// PreviousDateKey is the calendar day before now in loc.
func PreviousDateKey(now time.Time, loc *time.Location) string {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, loc).Format(DateLayout)
}
