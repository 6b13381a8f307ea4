package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/zaloga/internal/model"
)

// SnapshotVersion is the format version written by Export.
const SnapshotVersion = 1

// Snapshot is a point-in-time copy of household data.
type Snapshot struct {
	Version     int                  `json:"version"`
	CreatedAt   time.Time            `json:"created_at"`
	Preferences model.Preferences    `json:"preferences"`
	Locations   []model.Location     `json:"locations"`
	Items       []model.Item         `json:"items"`
	Shopping    []model.ShoppingItem `json:"shopping"`
	History     []model.HistoryEntry `json:"history"`
}

// Name returns a unique snapshot file name for the given time.
func Name(now time.Time) string {
	return fmt.Sprintf("zaloga-%s-%s.json", now.Format("2006-01-02"), uuid.NewString())
}

// Export encodes snap and writes it to fs under a fresh name, which is
// returned. Version and CreatedAt are filled in.
func Export(ctx context.Context, fs FileStore, snap Snapshot, now time.Time) (string, error) {
	snap.Version = SnapshotVersion
	snap.CreatedAt = now.UTC()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	name := Name(now)
	if err := fs.Put(ctx, name, data); err != nil {
		return "", fmt.Errorf("storing snapshot: %w", err)
	}
	return name, nil
}

// Decode reads a snapshot written by Export.
func Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return &snap, nil
}
