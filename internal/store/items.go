package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/zaloga/internal/expiry"
	"github.com/erazemk/zaloga/internal/model"
)

const itemColumns = `i.id, i.name, i.category, i.subcategory, i.quantity, i.expiry_date,
	i.notify_days_before, i.location_id, i.barcode, i.image_mime, i.status,
	i.created_at, i.updated_at, l.name`

const itemFrom = `FROM items i LEFT JOIN locations l ON l.id = i.location_id`

// ItemFilter narrows ListItems. An empty Status lists active items.
type ItemFilter struct {
	Category   string
	Status     string
	LocationID int64
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (*model.Item, error) {
	var (
		item                         model.Item
		subcategory, barcode         sql.NullString
		imageMime, locationName      sql.NullString
		expiryDate                   string
		notifyDaysBefore, locationID sql.NullInt64
	)
	err := s.Scan(&item.ID, &item.Name, &item.Category, &subcategory, &item.Quantity, &expiryDate,
		&notifyDaysBefore, &locationID, &barcode, &imageMime, &item.Status,
		&item.CreatedAt, &item.UpdatedAt, &locationName)
	if err != nil {
		return nil, err
	}

	item.ExpiryDate, err = expiry.ParseDate(expiryDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", item.ID, err)
	}
	item.Subcategory = subcategory.String
	item.Barcode = barcode.String
	item.ImageMime = imageMime.String
	item.LocationName = locationName.String
	if notifyDaysBefore.Valid {
		n := int(notifyDaysBefore.Int64)
		item.NotifyDaysBefore = &n
	}
	if locationID.Valid {
		id := locationID.Int64
		item.LocationID = &id
	}
	return &item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// CreateItem stores a new active item. If the item carries a barcode, the
// product catalog learns its name and category in the same transaction.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	if item.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (name, category, subcategory, quantity, expiry_date, notify_days_before, location_id, barcode)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Category, nullString(item.Subcategory), item.Quantity,
		expiry.FormatDate(item.ExpiryDate), nullInt(item.NotifyDaysBefore), nullID(item.LocationID),
		nullString(item.Barcode),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	if item.Barcode != "" {
		p := model.Product{
			Barcode:     item.Barcode,
			Name:        item.Name,
			Category:    item.Category,
			Subcategory: item.Subcategory,
		}
		if err := upsertProduct(ctx, tx, p); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` `+itemFrom+` WHERE i.id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items matching the filter, soonest expiry first.
func ListItems(ctx context.Context, db *sql.DB, f ItemFilter) ([]model.Item, error) {
	status := f.Status
	if status == "" {
		status = model.ItemStatusActive
	}

	where := []string{"i.status = ?"}
	args := []any{status}
	if f.Category != "" {
		where = append(where, "i.category = ?")
		args = append(args, f.Category)
	}
	if f.LocationID != 0 {
		where = append(where, "i.location_id = ?")
		args = append(args, f.LocationID)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` `+itemFrom+`
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY i.expiry_date, i.name`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem overwrites the editable fields of an active item.
func UpdateItem(ctx context.Context, db *sql.DB, item model.Item) error {
	if item.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, subcategory = ?, quantity = ?, expiry_date = ?,
		        notify_days_before = ?, location_id = ?, barcode = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'active'`,
		item.Name, item.Category, nullString(item.Subcategory), item.Quantity,
		expiry.FormatDate(item.ExpiryDate), nullInt(item.NotifyDaysBefore), nullID(item.LocationID),
		nullString(item.Barcode), item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireAffected(result, ErrNotFound)
}

// DeleteItem removes an item. Its history entries stay for statistics with
// their item reference cleared; shopping list entries lose their link too.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireAffected(result, ErrNotFound)
}

// SetItemImage sets an item's image data.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return requireAffected(result, ErrNotFound)
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
