package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// CreateLocation creates a new storage location.
func CreateLocation(ctx context.Context, db *sql.DB, name string) (*model.Location, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO locations (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting location id: %w", err)
	}

	return GetLocation(ctx, db, id)
}

// GetLocation returns a location by ID.
func GetLocation(ctx context.Context, db *sql.DB, id int64) (*model.Location, error) {
	l := &model.Location{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM locations WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.CreatedAt, &l.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	return l, nil
}

// ListLocations returns all non-deleted locations.
func ListLocations(ctx context.Context, db *sql.DB) ([]model.Location, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at, deleted_at
		 FROM locations WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt, &l.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// UpdateLocation renames a location.
func UpdateLocation(ctx context.Context, db *sql.DB, id int64, name string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE locations SET name = ? WHERE id = ? AND deleted_at IS NULL`,
		name, id,
	)
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}
	return requireAffected(result, ErrNotFound)
}

// DeleteLocation soft-deletes a location. Fails if active items are kept there.
func DeleteLocation(ctx context.Context, db *sql.DB, id int64) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE location_id = ? AND status = 'active'`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking location items: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d active items", ErrLocationInUse, count)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE locations SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	return requireAffected(result, ErrNotFound)
}
