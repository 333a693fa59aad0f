package http

import (
	"context"
	"net/http"
	"time"

	"github.com/adarsh062/VibeCart/internal/catalog"
	"github.com/adarsh062/VibeCart/internal/domain"
)

// ProductHandler is a pure passthrough over the read-only catalog.
type ProductHandler struct {
	catalog catalog.Catalog
	timeout time.Duration
}

func NewProductHandler(catalog catalog.Catalog, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.List(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "Error fetching products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}
