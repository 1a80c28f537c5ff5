package validators

import (
	"regexp"
	"time"
)

var timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidDate accepts calendar dates in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidTime accepts HH:MM wall-clock times.
func IsValidTime(s string) bool {
	return timeRe.MatchString(s)
}

// IsValidSlot checks both halves of a slot reference.
func IsValidSlot(date, timeStr string) bool {
	return IsValidDate(date) && IsValidTime(timeStr)
}

// IsValidRating bounds feedback scores.
func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
