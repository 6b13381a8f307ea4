package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/zaloga/internal/expiry"
	"github.com/erazemk/zaloga/internal/model"
)

// ConsumeParams describes quantity leaving the active inventory.
type ConsumeParams struct {
	ItemID  int64
	Outcome string
	// Quantity to consume; zero consumes everything that is left.
	Quantity int
	// Today is the reference date for the recorded days remaining.
	Today time.Time
	// AddToShoppingList puts the consumed quantity on the shopping list.
	AddToShoppingList bool
	UserID            *int64
}

// ConsumeItem marks quantity of an item as used or wasted. A history entry is
// written for the consumed quantity; when nothing is left the item takes the
// outcome as its terminal status and leaves the active inventory.
func ConsumeItem(ctx context.Context, db *sql.DB, p ConsumeParams) (*model.Item, error) {
	if !model.ValidOutcome(p.Outcome) {
		return nil, fmt.Errorf("invalid outcome %q", p.Outcome)
	}
	if p.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		name, category, status, expiryDate string
		current                            int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT name, category, status, expiry_date, quantity FROM items WHERE id = ?`, p.ItemID,
	).Scan(&name, &category, &status, &expiryDate, &current)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if status != model.ItemStatusActive {
		return nil, ErrNotActive
	}

	qty := p.Quantity
	if qty == 0 {
		qty = current
	}
	if qty == 0 {
		// Nothing left to record; only close the item.
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			p.Outcome, p.ItemID,
		); err != nil {
			return nil, fmt.Errorf("closing item: %w", err)
		}
		return commitAndGet(ctx, db, tx, p.ItemID)
	}
	if qty > current {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientQuantity, current, qty)
	}

	exp, err := expiry.ParseDate(expiryDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", p.ItemID, err)
	}
	days := expiry.DaysUntil(exp, p.Today)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (item_id, item_name, category, outcome, quantity, days_remaining, recorded_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ItemID, name, category, p.Outcome, qty, days, nullID(p.UserID),
	)
	if err != nil {
		return nil, fmt.Errorf("recording history: %w", err)
	}

	remaining := current - qty
	newStatus := model.ItemStatusActive
	if remaining == 0 {
		newStatus = p.Outcome
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE items SET quantity = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		remaining, newStatus, p.ItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item quantity: %w", err)
	}

	if p.AddToShoppingList {
		itemID := p.ItemID
		if err := insertShoppingItem(ctx, tx, name, qty, category, &itemID); err != nil {
			return nil, err
		}
	}

	return commitAndGet(ctx, db, tx, p.ItemID)
}

func commitAndGet(ctx context.Context, db *sql.DB, tx *sql.Tx, id int64) (*model.Item, error) {
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing consumption: %w", err)
	}
	return GetItem(ctx, db, id)
}
