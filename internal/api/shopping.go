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

// ShoppingHandler handles shopping list endpoints.
type ShoppingHandler struct {
	DB *sql.DB
}

type shoppingRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
}

// List handles GET /api/shopping.
func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListShoppingItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list shopping items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list shopping items")
		return
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/shopping. Quantity defaults to one.
func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shoppingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		jsonError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if req.Category != "" && !model.ValidCategory(req.Category) {
		jsonError(w, http.StatusBadRequest, "invalid category")
		return
	}

	item, err := store.CreateShoppingItem(r.Context(), h.DB, name, req.Quantity, req.Category, nil)
	if err != nil {
		slog.Error("failed to create shopping item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create shopping item")
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/shopping/{id}.
func (h *ShoppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid shopping item id")
		return
	}

	var req shoppingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "name and positive quantity required")
		return
	}

	switch err := store.UpdateShoppingItem(r.Context(), h.DB, id, name, req.Quantity, req.Checked); {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "shopping item not found")
		return
	case err != nil:
		slog.Error("failed to update shopping item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update shopping item")
		return
	}

	item, err := store.GetShoppingItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get shopping item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get shopping item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/shopping/{id}.
func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid shopping item id")
		return
	}

	switch err := store.DeleteShoppingItem(r.Context(), h.DB, id); {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "shopping item not found")
		return
	case err != nil:
		slog.Error("failed to delete shopping item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete shopping item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "shopping item deleted"})
}

// Clear handles POST /api/shopping/clear: checked entries are removed.
func (h *ShoppingHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := store.ClearCheckedShoppingItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to clear shopping list", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to clear shopping list")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"removed": n})
}
