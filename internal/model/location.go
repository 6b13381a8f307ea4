package model

import "time"

// Location is a place in the household where items are kept (fridge,
// freezer, pantry, ...).
type Location struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
