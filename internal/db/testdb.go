package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns a migrated in-memory database that is closed when the
// test ends.
func NewTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	database, err := Open(":memory:")
	if err != nil {
		tb.Fatalf("opening in-memory database: %v", err)
	}
	tb.Cleanup(func() { database.Close() })

	// Each new connection to ":memory:" starts out empty.
	database.SetMaxOpenConns(1)

	if err := Migrate(database); err != nil {
		tb.Fatalf("migrating in-memory database: %v", err)
	}
	return database
}
