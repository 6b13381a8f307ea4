package api

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/zaloga/internal/backup"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// BackupHandler exports snapshots to the configured file store and restores
// them (admin only).
type BackupHandler struct {
	DB    *sql.DB
	Store backup.FileStore
	Now   func() time.Time
}

type backupResponse struct {
	Name string `json:"name"`
}

// collectSnapshot reads everything a snapshot holds.
func collectSnapshot(ctx context.Context, db *sql.DB) (backup.Snapshot, error) {
	var snap backup.Snapshot

	prefs, err := store.GetPreferences(ctx, db)
	if err != nil {
		return snap, err
	}
	snap.Preferences = *prefs

	if snap.Locations, err = store.ListLocations(ctx, db); err != nil {
		return snap, err
	}

	for _, status := range []string{model.ItemStatusActive, model.ItemStatusUsed, model.ItemStatusWasted} {
		items, err := store.ListItems(ctx, db, store.ItemFilter{Status: status})
		if err != nil {
			return snap, fmt.Errorf("%s items: %w", status, err)
		}
		snap.Items = append(snap.Items, items...)
	}

	if snap.Shopping, err = store.ListShoppingItems(ctx, db); err != nil {
		return snap, err
	}
	if snap.History, err = store.ListHistory(ctx, db, store.HistoryFilter{}); err != nil {
		return snap, err
	}
	return snap, nil
}

// Create handles POST /api/backup.
func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	snap, err := collectSnapshot(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to collect snapshot", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create backup")
		return
	}

	name, err := backup.Export(r.Context(), h.Store, snap, h.Now())
	if err != nil {
		if errors.Is(err, backup.ErrProviderUnavailable) {
			jsonError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		slog.Error("failed to export snapshot", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create backup")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("backup created", "user", claims.Username, "name", name, "items", len(snap.Items))
	jsonResponse(w, http.StatusCreated, backupResponse{Name: name})
}

// List handles GET /api/backup.
func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.Store.List(r.Context())
	if err != nil {
		backupStoreError(w, err, "list backups")
		return
	}
	if names == nil {
		names = []string{}
	}
	jsonResponse(w, http.StatusOK, names)
}

// backupStoreError writes the response for a failed file store call.
func backupStoreError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, backup.ErrNotFound):
		jsonError(w, http.StatusNotFound, "backup not found")
	case errors.Is(err, backup.ErrProviderUnavailable):
		jsonError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, backup.ErrInvalidName):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to "+action, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// Get handles GET /api/backup/{name}.
func (h *BackupHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, err := h.Store.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		backupStoreError(w, err, "read backup")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type restoreResponse struct {
	Name      string `json:"name"`
	Locations int    `json:"locations"`
	Items     int    `json:"items"`
	Shopping  int    `json:"shopping"`
	History   int    `json:"history"`
}

// Restore handles POST /api/backup/{name}/restore. Household data is replaced
// by the snapshot; members and the barcode catalog are kept.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := h.Store.Get(r.Context(), name)
	if err != nil {
		backupStoreError(w, err, "read backup")
		return
	}

	snap, err := backup.Decode(bytes.NewReader(data))
	if err != nil {
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err = store.Restore(r.Context(), h.DB, store.Dataset{
		Preferences: snap.Preferences,
		Locations:   snap.Locations,
		Items:       snap.Items,
		Shopping:    snap.Shopping,
		History:     snap.History,
	})
	if errors.Is(err, store.ErrInvalidDataset) {
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to restore backup", "name", name, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to restore backup")
		return
	}

	slog.Info("backup restored", "user", GetClaims(r.Context()).Username, "name", name, "created_at", snap.CreatedAt)
	jsonResponse(w, http.StatusOK, restoreResponse{
		Name:      name,
		Locations: len(snap.Locations),
		Items:     len(snap.Items),
		Shopping:  len(snap.Shopping),
		History:   len(snap.History),
	})
}
