package db

import (
	"database/sql"
	"fmt"
)

// migration upgrades the schema by one version.
type migration struct {
	name string
	sql  string
}

// migrations run in order on top of the base schema. The schema version
// stored in PRAGMA user_version is the number of migrations already applied,
// so entries must only ever be appended.
var migrations = []migration{
	{
		name: "index history by time",
		sql:  `CREATE INDEX IF NOT EXISTS idx_history_recorded_at ON history(recorded_at)`,
	},
	{
		name: "index shopping list by source item",
		sql:  `CREATE INDEX IF NOT EXISTS idx_shopping_items_item_id ON shopping_items(item_id)`,
	},
	{
		name: "keep history when its item is deleted",
		sql: `
CREATE TABLE history_v3 (
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
INSERT INTO history_v3 SELECT id, item_id, item_name, category, outcome, quantity,
    days_remaining, recorded_at, recorded_by FROM history;
DROP TABLE history;
ALTER TABLE history_v3 RENAME TO history;
CREATE INDEX IF NOT EXISTS idx_history_recorded_at ON history(recorded_at);
`,
	},
}

// SchemaVersion returns the number of migrations applied to db.
func SchemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Migrate creates the base schema and applies pending migrations, each in its
// own transaction together with the version bump.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", current, len(migrations))
	}

	for i := current; i < len(migrations); i++ {
		m := migrations[i]
		if err := apply(db, i+1, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", i+1, m.name, err)
		}
	}
	return nil
}

func apply(db *sql.DB, version int, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return err
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, version)); err != nil {
		return err
	}
	return tx.Commit()
}
