package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

func insertShoppingItem(ctx context.Context, db execer, name string, quantity int, category string, itemID *int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO shopping_items (name, quantity, category, item_id) VALUES (?, ?, ?, ?)`,
		name, quantity, nullString(category), nullID(itemID),
	)
	if err != nil {
		return fmt.Errorf("creating shopping item: %w", err)
	}
	return nil
}

// CreateShoppingItem adds an entry to the shopping list.
func CreateShoppingItem(ctx context.Context, db *sql.DB, name string, quantity int, category string, itemID *int64) (*model.ShoppingItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO shopping_items (name, quantity, category, item_id) VALUES (?, ?, ?, ?)`,
		name, quantity, nullString(category), nullID(itemID),
	)
	if err != nil {
		return nil, fmt.Errorf("creating shopping item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting shopping item id: %w", err)
	}
	return GetShoppingItem(ctx, db, id)
}

// GetShoppingItem returns a shopping list entry by ID, or nil if missing.
func GetShoppingItem(ctx context.Context, db *sql.DB, id int64) (*model.ShoppingItem, error) {
	s, err := scanShoppingItem(db.QueryRowContext(ctx,
		`SELECT id, name, quantity, category, checked, item_id, created_at
		 FROM shopping_items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting shopping item: %w", err)
	}
	return s, nil
}

// ListShoppingItems returns the shopping list, unchecked entries first.
func ListShoppingItems(ctx context.Context, db *sql.DB) ([]model.ShoppingItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, quantity, category, checked, item_id, created_at
		 FROM shopping_items ORDER BY checked, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shopping items: %w", err)
	}
	defer rows.Close()

	var list []model.ShoppingItem
	for rows.Next() {
		s, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shopping item: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

func scanShoppingItem(s rowScanner) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var category sql.NullString
	var itemID sql.NullInt64
	if err := s.Scan(&item.ID, &item.Name, &item.Quantity, &category, &item.Checked, &itemID, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.Category = category.String
	if itemID.Valid {
		id := itemID.Int64
		item.ItemID = &id
	}
	return &item, nil
}

// UpdateShoppingItem changes a shopping list entry.
func UpdateShoppingItem(ctx context.Context, db *sql.DB, id int64, name string, quantity int, checked bool) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	result, err := db.ExecContext(ctx,
		`UPDATE shopping_items SET name = ?, quantity = ?, checked = ? WHERE id = ?`,
		name, quantity, checked, id,
	)
	if err != nil {
		return fmt.Errorf("updating shopping item: %w", err)
	}
	return requireAffected(result, ErrNotFound)
}

// DeleteShoppingItem removes an entry from the shopping list.
func DeleteShoppingItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting shopping item: %w", err)
	}
	return requireAffected(result, ErrNotFound)
}

// ClearCheckedShoppingItems removes all checked entries and returns how many
// were removed.
func ClearCheckedShoppingItems(ctx context.Context, db *sql.DB) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM shopping_items WHERE checked = 1`)
	if err != nil {
		return 0, fmt.Errorf("clearing shopping list: %w", err)
	}
	return result.RowsAffected()
}
