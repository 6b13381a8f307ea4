package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/zaloga/internal/model"
)

// sqliteTime matches the layout of CURRENT_TIMESTAMP so that range
// comparisons against stored timestamps sort correctly.
const sqliteTime = "2006-01-02 15:04:05"

// HistoryFilter narrows ListHistory. Zero values mean no restriction.
type HistoryFilter struct {
	ItemID  int64
	Outcome string
	Since   time.Time
	Limit   int
}

// ListHistory returns history entries, newest first.
func ListHistory(ctx context.Context, db *sql.DB, f HistoryFilter) ([]model.HistoryEntry, error) {
	var where []string
	var args []any
	if f.ItemID != 0 {
		where = append(where, "item_id = ?")
		args = append(args, f.ItemID)
	}
	if f.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, f.Outcome)
	}
	if !f.Since.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, f.Since.UTC().Format(sqliteTime))
	}

	query := `SELECT id, item_id, item_name, category, outcome, quantity, days_remaining, recorded_at, recorded_by
	          FROM history`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY recorded_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		var itemID, recordedBy sql.NullInt64
		if err := rows.Scan(&e.ID, &itemID, &e.ItemName, &e.Category, &e.Outcome, &e.Quantity,
			&e.DaysRemaining, &e.RecordedAt, &recordedBy); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		if itemID.Valid {
			id := itemID.Int64
			e.ItemID = &id
		}
		if recordedBy.Valid {
			id := recordedBy.Int64
			e.RecordedBy = &id
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates history per category since the given time. A zero since
// covers the whole history.
func Stats(ctx context.Context, db *sql.DB, since time.Time) (*model.Stats, error) {
	query := `SELECT category,
	                 SUM(CASE WHEN outcome = 'used' THEN 1 ELSE 0 END),
	                 SUM(CASE WHEN outcome = 'wasted' THEN 1 ELSE 0 END),
	                 SUM(CASE WHEN outcome = 'used' THEN quantity ELSE 0 END),
	                 SUM(CASE WHEN outcome = 'wasted' THEN quantity ELSE 0 END)
	          FROM history`
	var args []any
	if !since.IsZero() {
		query += " WHERE recorded_at >= ?"
		args = append(args, since.UTC().Format(sqliteTime))
	}
	query += " GROUP BY category ORDER BY category"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("computing stats: %w", err)
	}
	defer rows.Close()

	stats := &model.Stats{Categories: []model.CategoryStats{}}
	if !since.IsZero() {
		s := since
		stats.Since = &s
	}
	for rows.Next() {
		var c model.CategoryStats
		if err := rows.Scan(&c.Category, &c.UsedEvents, &c.WastedEvents, &c.UsedQuantity, &c.WastedQuantity); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		stats.Categories = append(stats.Categories, c)
		stats.UsedQuantity += c.UsedQuantity
		stats.WastedQuantity += c.WastedQuantity
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if total := stats.UsedQuantity + stats.WastedQuantity; total > 0 {
		stats.WasteRatio = float64(stats.WastedQuantity) / float64(total)
	}
	return stats, nil
}
