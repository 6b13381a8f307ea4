package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/zaloga/internal/barcode"
	"github.com/erazemk/zaloga/internal/expiry"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/locale"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ItemsHandler handles inventory item endpoints.
type ItemsHandler struct {
	DB    *sql.DB
	Photo imaging.Options
	Now   func() time.Time
}

type itemRequest struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	Subcategory      string `json:"subcategory"`
	Quantity         int    `json:"quantity"`
	ExpiryDate       string `json:"expiry_date"`
	NotifyDaysBefore *int   `json:"notify_days_before"`
	LocationID       *int64 `json:"location_id"`
	Barcode          string `json:"barcode"`
}

type consumeRequest struct {
	Outcome           string `json:"outcome"`
	Quantity          int    `json:"quantity"`
	AddToShoppingList bool   `json:"add_to_shopping_list"`
}

// itemResponse pairs a stored item with its expiry projection and the
// category name in the household language.
type itemResponse struct {
	Item          model.Item        `json:"item"`
	Projection    expiry.Projection `json:"projection"`
	CategoryLabel string            `json:"category_label"`
}

// display holds what is needed to project items for one request.
type display struct {
	today      time.Time
	convention locale.Convention
	catalog    *locale.Catalog
}

func (d display) project(item model.Item) itemResponse {
	return itemResponse{
		Item:          item,
		Projection:    expiry.Project(item, d.today, d.convention, d.catalog),
		CategoryLabel: d.catalog.Category(item.Category),
	}
}

// loadDisplay resolves the reference date and the household preferences.
// It writes the error response itself and returns false on failure.
func loadDisplay(w http.ResponseWriter, r *http.Request, db *sql.DB, now func() time.Time) (display, bool) {
	today, err := referenceDate(r, now)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return display{}, false
	}

	prefs, err := store.GetPreferences(r.Context(), db)
	if err != nil {
		slog.Error("failed to get preferences", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get preferences")
		return display{}, false
	}

	return display{
		today:      today,
		convention: locale.Convention(prefs.DateFormat),
		catalog:    locale.New(prefs.Language),
	}, true
}

// toItem validates the request and builds the item it describes. Creation
// requires a positive quantity; edits allow zero.
func (req itemRequest) toItem(r *http.Request, db *sql.DB, creating bool) (model.Item, string, error) {
	var item model.Item

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return item, "name required", nil
	}
	if !model.ValidCategory(req.Category) {
		return item, "category must be food or household", nil
	}
	if creating && req.Quantity <= 0 {
		return item, "quantity must be positive", nil
	}
	if req.Quantity < 0 {
		return item, "quantity must not be negative", nil
	}
	exp, err := expiry.ParseDate(req.ExpiryDate, time.Local)
	if err != nil {
		return item, err.Error(), nil
	}
	if req.NotifyDaysBefore != nil && *req.NotifyDaysBefore < 0 {
		return item, "notify_days_before must not be negative", nil
	}

	code := ""
	if req.Barcode != "" {
		var ok bool
		if code, ok = barcode.Normalize(req.Barcode); !ok {
			return item, "invalid barcode", nil
		}
	}

	if req.LocationID != nil {
		loc, err := store.GetLocation(r.Context(), db, *req.LocationID)
		if err != nil {
			return item, "", err
		}
		if loc == nil || loc.DeletedAt != nil {
			return item, "location not found", nil
		}
	}

	item = model.Item{
		Name:             name,
		Category:         req.Category,
		Subcategory:      strings.TrimSpace(req.Subcategory),
		Quantity:         req.Quantity,
		ExpiryDate:       exp,
		NotifyDaysBefore: req.NotifyDaysBefore,
		LocationID:       req.LocationID,
		Barcode:          code,
	}
	return item, "", nil
}

// List handles GET /api/items. Items come back soonest expiry first.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ItemFilter{
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}
	if f.Category != "" && !model.ValidCategory(f.Category) {
		jsonError(w, http.StatusBadRequest, "invalid category")
		return
	}
	if f.Status != "" && f.Status != model.ItemStatusActive && !model.ValidOutcome(f.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	d, ok := loadDisplay(w, r, h.DB, h.Now)
	if !ok {
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, f)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, d.project(item))
	}
	jsonResponse(w, http.StatusOK, out)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, msg, err := req.toItem(r, h.DB, true)
	if err != nil {
		slog.Error("failed to validate item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	d, ok := loadDisplay(w, r, h.DB, h.Now)
	if !ok {
		return
	}

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item created", "user", claims.Username, "item", created.Name, "expiry", expiry.FormatDate(created.ExpiryDate))
	jsonResponse(w, http.StatusCreated, d.project(*created))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	d, ok := loadDisplay(w, r, h.DB, h.Now)
	if !ok {
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, d.project(*item))
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, msg, err := req.toItem(r, h.DB, false)
	if err != nil {
		slog.Error("failed to validate item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}
	item.ID = id

	existing, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if existing.Status != model.ItemStatusActive {
		jsonError(w, http.StatusConflict, store.ErrNotActive.Error())
		return
	}

	d, ok := loadDisplay(w, r, h.DB, h.Now)
	if !ok {
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, item); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusConflict, store.ErrNotActive.Error())
			return
		}
		slog.Error("failed to update item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	updated, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		slog.Error("failed to reload item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item updated", "user", claims.Username, "item", updated.Name)
	jsonResponse(w, http.StatusOK, d.project(*updated))
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	switch err := store.DeleteItem(r.Context(), h.DB, id); {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	case err != nil:
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item deleted", "user", claims.Username, "item_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Consume handles POST /api/items/{id}/consume. A zero quantity consumes
// everything that is left.
func (h *ItemsHandler) Consume(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req consumeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidOutcome(req.Outcome) {
		jsonError(w, http.StatusBadRequest, "outcome must be used or wasted")
		return
	}
	if req.Quantity < 0 {
		jsonError(w, http.StatusBadRequest, "quantity must not be negative")
		return
	}

	d, ok := loadDisplay(w, r, h.DB, h.Now)
	if !ok {
		return
	}

	item, err := store.ConsumeItem(r.Context(), h.DB, store.ConsumeParams{
		ItemID:            id,
		Outcome:           req.Outcome,
		Quantity:          req.Quantity,
		Today:             d.today,
		AddToShoppingList: req.AddToShoppingList,
		UserID:            userID(r.Context()),
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	case errors.Is(err, store.ErrNotActive), errors.Is(err, store.ErrInsufficientQuantity):
		jsonError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		slog.Error("failed to consume item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to consume item")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item consumed", "user", claims.Username, "item", item.Name,
		"outcome", req.Outcome, "quantity", req.Quantity, "remaining", item.Quantity)
	jsonResponse(w, http.StatusOK, d.project(*item))
}

// Reminders handles GET /api/reminders: active items whose notification
// window is open on the reference date.
func (h *ItemsHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	d, ok := loadDisplay(w, r, h.DB, h.Now)
	if !ok {
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, store.ItemFilter{})
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list reminders")
		return
	}

	out := []itemResponse{}
	for _, item := range items {
		if expiry.ReminderDue(item, d.today) {
			out = append(out, d.project(item))
		}
	}
	jsonResponse(w, http.StatusOK, out)
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	data, err := imaging.Process(body, h.Photo)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch err := store.SetItemImage(r.Context(), h.DB, id, data, imaging.MIME); {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	case err != nil:
		slog.Error("failed to save image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item image uploaded", "user", claims.Username, "item_id", id, "bytes", len(data))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
