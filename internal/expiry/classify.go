package expiry

import (
	"github.com/erazemk/zaloga/internal/locale"
)

// Severity is the expiry state of an item.
type Severity string

// Severities, from least to most severe.
const (
	Safe    Severity = "safe"
	Warning Severity = "warning"
	Expired Severity = "expired"
)

// Thresholds in days remaining. Items expiring tomorrow or sooner are
// treated as expired.
const (
	ExpiredMaxDays = 1
	WarningMaxDays = 4
)

// Color tags consumed by clients.
const (
	ColorGreen  = "green"
	ColorOrange = "orange"
	ColorRed    = "red"
)

// Classify maps days remaining to a severity.
func Classify(daysRemaining int) Severity {
	switch {
	case daysRemaining <= ExpiredMaxDays:
		return Expired
	case daysRemaining <= WarningMaxDays:
		return Warning
	default:
		return Safe
	}
}

// Rank orders severities: Safe < Warning < Expired.
func (s Severity) Rank() int {
	switch s {
	case Safe:
		return 0
	case Warning:
		return 1
	case Expired:
		return 2
	default:
		return -1
	}
}

// Color returns the color tag for the severity.
func (s Severity) Color() string {
	switch s {
	case Expired:
		return ColorRed
	case Warning:
		return ColorOrange
	default:
		return ColorGreen
	}
}

// Label returns the localized label for a days-remaining value.
func Label(daysRemaining int, c *locale.Catalog) string {
	switch {
	case daysRemaining < 0:
		return c.T(locale.KeyExpired)
	case daysRemaining == 0:
		return c.T(locale.KeyToday)
	case daysRemaining == 1:
		return c.T(locale.KeyTomorrow)
	default:
		return c.N(locale.KeyDays, daysRemaining)
	}
}
