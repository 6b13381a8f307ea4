package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/zaloga/internal/expiry"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// HistoryHandler serves the consumption log and statistics.
type HistoryHandler struct {
	DB *sql.DB
}

// parseSince reads the optional ?since=YYYY-MM-DD parameter.
func parseSince(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("since")
	if v == "" {
		return time.Time{}, nil
	}
	return expiry.ParseDate(v, time.Local)
}

// List handles GET /api/history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f store.HistoryFilter
	if v := q.Get("item"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item id")
			return
		}
		f.ItemID = id
	}
	if v := q.Get("outcome"); v != "" {
		if !model.ValidOutcome(v) {
			jsonError(w, http.StatusBadRequest, "invalid outcome")
			return
		}
		f.Outcome = v
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		f.Limit = n
	}
	since, err := parseSince(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.Since = since

	entries, err := store.ListHistory(r.Context(), h.DB, f)
	if err != nil {
		slog.Error("failed to list history", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Stats handles GET /api/stats.
func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	since, err := parseSince(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := store.Stats(r.Context(), h.DB, since)
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}
