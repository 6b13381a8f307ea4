package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/zaloga/internal/expiry"
)

// maxUploadBytes caps photo uploads and barcode scans.
const maxUploadBytes = 10 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// referenceDate returns the date projections are computed against: the
// ?today= query parameter when present, otherwise the local date of now.
func referenceDate(r *http.Request, now func() time.Time) (time.Time, error) {
	if v := r.URL.Query().Get("today"); v != "" {
		return expiry.ParseDate(v, time.Local)
	}
	return expiry.Normalize(now().In(time.Local)), nil
}
