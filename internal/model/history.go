package model

import "time"

// HistoryEntry records quantity leaving the active inventory. Entries outlive
// their item; ItemID is nil once the item is deleted.
type HistoryEntry struct {
	ID            int64     `json:"id"`
	ItemID        *int64    `json:"item_id,omitempty"`
	ItemName      string    `json:"item_name"`
	Category      string    `json:"category"`
	Outcome       string    `json:"outcome"`
	Quantity      int       `json:"quantity"`
	DaysRemaining int       `json:"days_remaining"`
	RecordedAt    time.Time `json:"recorded_at"`
	RecordedBy    *int64    `json:"recorded_by,omitempty"`
}

// CategoryStats aggregates history for one category.
type CategoryStats struct {
	Category       string `json:"category"`
	UsedEvents     int    `json:"used_events"`
	WastedEvents   int    `json:"wasted_events"`
	UsedQuantity   int    `json:"used_quantity"`
	WastedQuantity int    `json:"wasted_quantity"`
}

// Stats summarizes usage and waste over a period.
type Stats struct {
	Since          *time.Time      `json:"since,omitempty"`
	Categories     []CategoryStats `json:"categories"`
	UsedQuantity   int             `json:"used_quantity"`
	WastedQuantity int             `json:"wasted_quantity"`
	WasteRatio     float64         `json:"waste_ratio"`
}
