package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/locale"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// PreferencesHandler handles household display preferences.
type PreferencesHandler struct {
	DB *sql.DB
}

// Get handles GET /api/preferences.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := store.GetPreferences(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to get preferences", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get preferences")
		return
	}
	jsonResponse(w, http.StatusOK, prefs)
}

// Update handles PUT /api/preferences. Omitted fields keep their values.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	prefs, err := store.GetPreferences(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to get preferences", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get preferences")
		return
	}

	var req model.Preferences
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DateFormat != "" {
		prefs.DateFormat = req.DateFormat
	}
	if req.Language != "" {
		prefs.Language = req.Language
	}

	if !locale.Convention(prefs.DateFormat).Valid() {
		jsonError(w, http.StatusBadRequest, "date_format must be day_first or month_first")
		return
	}
	if !locale.Supported(prefs.Language) {
		jsonError(w, http.StatusBadRequest, "unsupported language")
		return
	}

	if err := store.SetPreferences(r.Context(), h.DB, *prefs); err != nil {
		slog.Error("failed to set preferences", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to set preferences")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("preferences updated", "user", claims.Username, "date_format", prefs.DateFormat, "language", prefs.Language)
	jsonResponse(w, http.StatusOK, prefs)
}
