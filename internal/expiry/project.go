package expiry

import (
	"time"

	"github.com/erazemk/zaloga/internal/locale"
	"github.com/erazemk/zaloga/internal/model"
)

// Projection is the read-only view of an item's expiry state.
type Projection struct {
	DaysRemaining int      `json:"days_remaining"`
	Severity      Severity `json:"severity"`
	Color         string   `json:"color"`
	Label         string   `json:"label"`
	FormattedDate string   `json:"formatted_date"`
}

// Project derives the expiry projection of item relative to ref.
func Project(item model.Item, ref time.Time, conv locale.Convention, c *locale.Catalog) Projection {
	days := DaysUntil(item.ExpiryDate, ref)
	sev := Classify(days)
	return Projection{
		DaysRemaining: days,
		Severity:      sev,
		Color:         sev.Color(),
		Label:         Label(days, c),
		FormattedDate: conv.Format(Normalize(item.ExpiryDate)),
	}
}

// ReminderDue reports whether the item's reminder window is open on ref:
// a reminder is configured and the item expires within that many days.
// Items already past their expiry date are not reminded about.
func ReminderDue(item model.Item, ref time.Time) bool {
	if item.NotifyDaysBefore == nil {
		return false
	}
	days := DaysUntil(item.ExpiryDate, ref)
	return days >= 0 && days <= *item.NotifyDaysBefore
}
