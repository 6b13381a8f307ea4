package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

func upsertProduct(ctx context.Context, db execer, p model.Product) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO products (barcode, name, category, subcategory) VALUES (?, ?, ?, ?)
		 ON CONFLICT (barcode) DO UPDATE SET name = excluded.name, category = excluded.category,
		     subcategory = excluded.subcategory, updated_at = CURRENT_TIMESTAMP`,
		p.Barcode, p.Name, p.Category, nullString(p.Subcategory),
	)
	if err != nil {
		return fmt.Errorf("saving product: %w", err)
	}
	return nil
}

// SaveProduct creates or replaces a barcode catalog entry.
func SaveProduct(ctx context.Context, db *sql.DB, p model.Product) error {
	return upsertProduct(ctx, db, p)
}

// GetProduct returns the catalog entry for a barcode, or nil if unknown.
func GetProduct(ctx context.Context, db *sql.DB, barcode string) (*model.Product, error) {
	var p model.Product
	var subcategory sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT barcode, name, category, subcategory, updated_at FROM products WHERE barcode = ?`, barcode,
	).Scan(&p.Barcode, &p.Name, &p.Category, &subcategory, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	p.Subcategory = subcategory.String
	return &p, nil
}
