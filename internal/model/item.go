package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Item is one tracked physical good in the household inventory.
type Item struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Subcategory      string    `json:"subcategory,omitempty"`
	Quantity         int       `json:"quantity"`
	ExpiryDate       time.Time `json:"-"`
	NotifyDaysBefore *int      `json:"notify_days_before,omitempty"`
	LocationID       *int64    `json:"location_id,omitempty"`
	Barcode          string    `json:"barcode,omitempty"`
	ImageMime        string    `json:"image_mime,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	LocationName string `json:"location_name,omitempty"`
}

// Item categories.
const (
	CategoryFood      = "food"
	CategoryHousehold = "household"
)

// Item statuses. Used and wasted are terminal.
const (
	ItemStatusActive = "active"
	ItemStatusUsed   = "used"
	ItemStatusWasted = "wasted"
)

// ValidCategory reports whether c is a known item category.
func ValidCategory(c string) bool {
	return c == CategoryFood || c == CategoryHousehold
}

// ValidOutcome reports whether o is a terminal item status.
func ValidOutcome(o string) bool {
	return o == ItemStatusUsed || o == ItemStatusWasted
}

// MarshalJSON encodes the expiry date as YYYY-MM-DD.
func (i Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return json.Marshal(struct {
		plain
		ExpiryDate string `json:"expiry_date"`
	}{plain: plain(i), ExpiryDate: i.ExpiryDate.Format("2006-01-02")})
}

// UnmarshalJSON accepts the form produced by MarshalJSON. The expiry date is
// read as a local calendar date; an absent date leaves ExpiryDate zero.
func (i *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	aux := struct {
		*plain
		ExpiryDate string `json:"expiry_date"`
	}{plain: (*plain)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ExpiryDate == "" {
		return nil
	}
	d, err := time.ParseInLocation("2006-01-02", aux.ExpiryDate, time.Local)
	if err != nil {
		return fmt.Errorf("expiry_date: %w", err)
	}
	i.ExpiryDate = d
	return nil
}
