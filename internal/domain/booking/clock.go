package booking

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// CombineLocal builds the timezone-aware instant for a (date, time) pair.
// Going through time.Date keeps DST transitions correct: the wall clock
// values are interpreted in loc, not shifted.
func CombineLocal(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	d, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	minutes, err := ParseClock(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}

// CanCancel reports whether a self-service cancellation is still inside
// the allowed window, and how many hours remain either way.
func CanCancel(bookingAt, now time.Time, windowHours int) (bool, float64) {
	hoursLeft := bookingAt.Sub(now).Hours()
	return hoursLeft >= float64(windowHours), hoursLeft
}
