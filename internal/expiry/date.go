// Package expiry derives the display state of an inventory item from its
// expiry date and a caller-supplied current date. Nothing in this package
// reads the system clock.
package expiry

import (
	"fmt"
	"time"
)

// DateLayout is the storage and wire format for calendar dates.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Normalize returns t with the time of day set to midnight in t's location.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the signed number of whole calendar days from ref to date.
// Only the calendar day of each value (in its own location) is used, so the
// result does not drift around daylight-saving transitions.
func DaysUntil(date, ref time.Time) int {
	return int((civil(date).Unix() - civil(ref).Unix()) / secondsPerDay)
}

// civil maps t's calendar day onto UTC midnight, where every day is 24h long.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate formats a date in the storage layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
