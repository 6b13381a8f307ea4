package api

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/zaloga/internal/barcode"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ProductsHandler resolves barcodes to learned products.
type ProductsHandler struct {
	DB     *sql.DB
	Reader barcode.Reader
}

type productRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

type scanResponse struct {
	Barcode string         `json:"barcode"`
	Product *model.Product `json:"product,omitempty"`
}

// Get handles GET /api/products/{barcode}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	code, ok := barcode.Normalize(r.PathValue("barcode"))
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid barcode")
		return
	}

	p, err := store.GetProduct(r.Context(), h.DB, code)
	if err != nil {
		slog.Error("failed to get product", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}
	jsonResponse(w, http.StatusOK, p)
}

// Put handles PUT /api/products/{barcode}, teaching the catalog a product
// without creating an item.
func (h *ProductsHandler) Put(w http.ResponseWriter, r *http.Request) {
	code, ok := barcode.Normalize(r.PathValue("barcode"))
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid barcode")
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || !model.ValidCategory(req.Category) {
		jsonError(w, http.StatusBadRequest, "name and valid category required")
		return
	}

	p := model.Product{
		Barcode:     code,
		Name:        name,
		Category:    req.Category,
		Subcategory: strings.TrimSpace(req.Subcategory),
	}
	if err := store.SaveProduct(r.Context(), h.DB, p); err != nil {
		slog.Error("failed to save product", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save product")
		return
	}

	saved, err := store.GetProduct(r.Context(), h.DB, code)
	if err != nil {
		slog.Error("failed to get product", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	jsonResponse(w, http.StatusOK, saved)
}

// Scan handles POST /api/barcode/scan. The body is a photo of the code.
// The product is included when the catalog knows it.
func (h *ProductsHandler) Scan(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	image, err := io.ReadAll(body)
	if err != nil {
		jsonError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	raw, err := h.Reader.Read(r.Context(), image)
	switch {
	case errors.Is(err, barcode.ErrUnavailable):
		jsonError(w, http.StatusNotImplemented, err.Error())
		return
	case errors.Is(err, barcode.ErrNotFound):
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.Error("failed to read barcode", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to read barcode")
		return
	}

	code, ok := barcode.Normalize(raw)
	if !ok {
		jsonError(w, http.StatusUnprocessableEntity, "unrecognized barcode")
		return
	}

	p, err := store.GetProduct(r.Context(), h.DB, code)
	if err != nil {
		slog.Error("failed to get product", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	jsonResponse(w, http.StatusOK, scanResponse{Barcode: code, Product: p})
}
