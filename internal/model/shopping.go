package model

import "time"

// ShoppingItem is an entry on the household shopping list.
type ShoppingItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Category  string    `json:"category,omitempty"`
	Checked   bool      `json:"checked"`
	ItemID    *int64    `json:"item_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a barcode catalog entry learned from previously entered items.
type Product struct {
	Barcode     string    `json:"barcode"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
