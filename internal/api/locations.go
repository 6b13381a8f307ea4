package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// LocationsHandler handles storage location endpoints.
type LocationsHandler struct {
	DB *sql.DB
}

type locationRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/locations.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := store.ListLocations(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list locations", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list locations")
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	jsonResponse(w, http.StatusOK, locations)
}

// Create handles POST /api/locations.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	loc, err := store.CreateLocation(r.Context(), h.DB, name)
	if err != nil {
		slog.Error("failed to create location", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create location")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("location created", "user", claims.Username, "location", name)
	jsonResponse(w, http.StatusCreated, loc)
}

// Update handles PUT /api/locations/{id}.
func (h *LocationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	switch err := store.UpdateLocation(r.Context(), h.DB, id, name); {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "location not found")
		return
	case err != nil:
		slog.Error("failed to update location", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update location")
		return
	}

	loc, err := store.GetLocation(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get location", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get location")
		return
	}
	jsonResponse(w, http.StatusOK, loc)
}

// Delete handles DELETE /api/locations/{id}.
func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	switch err := store.DeleteLocation(r.Context(), h.DB, id); {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "location not found")
		return
	case errors.Is(err, store.ErrLocationInUse):
		jsonError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		slog.Error("failed to delete location", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete location")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("location deleted", "user", claims.Username, "location_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "location deleted"})
}
