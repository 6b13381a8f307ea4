package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin', 'member')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS locations (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS items (
    id                 INTEGER PRIMARY KEY,
    name               TEXT NOT NULL,
    category           TEXT NOT NULL CHECK (category IN ('food', 'household')),
    subcategory        TEXT,
    quantity           INTEGER NOT NULL CHECK (quantity >= 0),
    expiry_date        TEXT NOT NULL,
    notify_days_before INTEGER CHECK (notify_days_before >= 0),
    location_id        INTEGER REFERENCES locations(id),
    barcode            TEXT,
    image              BLOB,
    image_mime         TEXT,
    status             TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'used', 'wasted')),
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_status_expiry ON items(status, expiry_date);

CREATE TABLE IF NOT EXISTS history (
    id             INTEGER PRIMARY KEY,
    item_id        INTEGER REFERENCES items(id) ON DELETE SET NULL,
    item_name      TEXT NOT NULL,
    category       TEXT NOT NULL,
    outcome        TEXT NOT NULL CHECK (outcome IN ('used', 'wasted')),
    quantity       INTEGER NOT NULL CHECK (quantity > 0),
    days_remaining INTEGER NOT NULL,
    recorded_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    recorded_by    INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS shopping_items (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    quantity   INTEGER NOT NULL DEFAULT 1 CHECK (quantity > 0),
    category   TEXT,
    checked    INTEGER NOT NULL DEFAULT 0,
    item_id    INTEGER REFERENCES items(id) ON DELETE SET NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
    barcode     TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL,
    subcategory TEXT,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
