package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/zaloga/internal/expiry"
	"github.com/erazemk/zaloga/internal/locale"
	"github.com/erazemk/zaloga/internal/model"
)

// ErrInvalidDataset is returned when restored data breaks a record rule.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is the household data replaced by Restore. Users, products and
// the signing secret are never part of it.
type Dataset struct {
	Preferences model.Preferences
	Locations   []model.Location
	Items       []model.Item
	Shopping    []model.ShoppingItem
	History     []model.HistoryEntry
}

func (d Dataset) validate() error {
	if !locale.Convention(d.Preferences.DateFormat).Valid() || !locale.Supported(d.Preferences.Language) {
		return fmt.Errorf("%w: preferences %+v", ErrInvalidDataset, d.Preferences)
	}
	for _, it := range d.Items {
		switch {
		case it.ID <= 0:
			return fmt.Errorf("%w: item without id", ErrInvalidDataset)
		case !model.ValidCategory(it.Category):
			return fmt.Errorf("%w: item %d has category %q", ErrInvalidDataset, it.ID, it.Category)
		case it.Status != model.ItemStatusActive && !model.ValidOutcome(it.Status):
			return fmt.Errorf("%w: item %d has status %q", ErrInvalidDataset, it.ID, it.Status)
		case it.Quantity < 0:
			return fmt.Errorf("%w: item %d has negative quantity", ErrInvalidDataset, it.ID)
		case it.ExpiryDate.IsZero():
			return fmt.Errorf("%w: item %d has no expiry date", ErrInvalidDataset, it.ID)
		}
	}
	for _, l := range d.Locations {
		if l.ID <= 0 || l.Name == "" {
			return fmt.Errorf("%w: location %d", ErrInvalidDataset, l.ID)
		}
	}
	for _, h := range d.History {
		if !model.ValidOutcome(h.Outcome) || h.Quantity <= 0 {
			return fmt.Errorf("%w: history entry %d", ErrInvalidDataset, h.ID)
		}
	}
	for _, s := range d.Shopping {
		if s.Name == "" || s.Quantity <= 0 {
			return fmt.Errorf("%w: shopping entry %d", ErrInvalidDataset, s.ID)
		}
	}
	return nil
}

// sqlTime formats t like CURRENT_TIMESTAMP; a zero t becomes NULL.
func sqlTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(sqliteTime)
}

// Restore replaces locations, items, history, the shopping list and the
// preferences with d in one transaction. Items keep their IDs, so photos of
// items present on both sides survive. References to users, locations or
// items that no longer exist are cleared.
func Restore(ctx context.Context, db *sql.DB, d Dataset) error {
	if err := d.validate(); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setSetting(ctx, tx, settingDateFormat, d.Preferences.DateFormat); err != nil {
		return err
	}
	if err := setSetting(ctx, tx, settingLanguage, d.Preferences.Language); err != nil {
		return err
	}

	for _, table := range []string{"shopping_items", "history"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := restoreLocations(ctx, tx, d.Locations); err != nil {
		return err
	}
	if err := restoreItems(ctx, tx, d.Items); err != nil {
		return err
	}

	for _, h := range d.History {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO history (item_id, item_name, category, outcome, quantity, days_remaining, recorded_at, recorded_by)
			 VALUES ((SELECT id FROM items WHERE id = ?), ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP),
			         (SELECT id FROM users WHERE id = ?))`,
			nullID(h.ItemID), h.ItemName, h.Category, h.Outcome, h.Quantity, h.DaysRemaining,
			sqlTime(h.RecordedAt), nullID(h.RecordedBy),
		)
		if err != nil {
			return fmt.Errorf("restoring history entry %d: %w", h.ID, err)
		}
	}

	for _, s := range d.Shopping {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO shopping_items (name, quantity, category, checked, item_id, created_at)
			 VALUES (?, ?, ?, ?, (SELECT id FROM items WHERE id = ?), COALESCE(?, CURRENT_TIMESTAMP))`,
			s.Name, s.Quantity, nullString(s.Category), s.Checked, nullID(s.ItemID), sqlTime(s.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("restoring shopping entry %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}
	return nil
}

// restoreLocations upserts d's locations and soft-deletes the active ones it
// does not mention.
func restoreLocations(ctx context.Context, tx *sql.Tx, locations []model.Location) error {
	keep := make(map[int64]bool, len(locations))
	for _, l := range locations {
		keep[l.ID] = true
		_, err := tx.ExecContext(ctx,
			`INSERT INTO locations (id, name, created_at) VALUES (?, ?, COALESCE(?, CURRENT_TIMESTAMP))
			 ON CONFLICT (id) DO UPDATE SET name = excluded.name, deleted_at = NULL`,
			l.ID, l.Name, sqlTime(l.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("restoring location %d: %w", l.ID, err)
		}
	}

	ids, err := tableIDs(ctx, tx, `SELECT id FROM locations WHERE deleted_at IS NULL`)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if keep[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE locations SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
		); err != nil {
			return fmt.Errorf("retiring location %d: %w", id, err)
		}
	}
	return nil
}

// restoreItems upserts d's items, keeping stored photos, and deletes items it
// does not mention.
func restoreItems(ctx context.Context, tx *sql.Tx, items []model.Item) error {
	keep := make(map[int64]bool, len(items))
	for _, it := range items {
		keep[it.ID] = true
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, name, category, subcategory, quantity, expiry_date, notify_days_before,
			                    location_id, barcode, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT id FROM locations WHERE id = ?), ?, ?,
			         COALESCE(?, CURRENT_TIMESTAMP), COALESCE(?, CURRENT_TIMESTAMP))
			 ON CONFLICT (id) DO UPDATE SET
			     name = excluded.name, category = excluded.category, subcategory = excluded.subcategory,
			     quantity = excluded.quantity, expiry_date = excluded.expiry_date,
			     notify_days_before = excluded.notify_days_before, location_id = excluded.location_id,
			     barcode = excluded.barcode, status = excluded.status, updated_at = excluded.updated_at`,
			it.ID, it.Name, it.Category, nullString(it.Subcategory), it.Quantity,
			expiry.FormatDate(it.ExpiryDate), nullInt(it.NotifyDaysBefore), nullID(it.LocationID),
			nullString(it.Barcode), it.Status, sqlTime(it.CreatedAt), sqlTime(it.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("restoring item %d: %w", it.ID, err)
		}
	}

	ids, err := tableIDs(ctx, tx, `SELECT id FROM items`)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if keep[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
			return fmt.Errorf("removing item %d: %w", id, err)
		}
	}
	return nil
}

func tableIDs(ctx context.Context, tx *sql.Tx, query string) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
