package http

import (
	"context"
	"net/http"
	"time"

	"github.com/adarsh062/VibeCart/internal/domain"
	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
)

// CartOperations is what the gateway needs from the aggregator.
// Consumers define this interface, not the service implementation.
type CartOperations interface {
	UpsertAdd(ctx context.Context, productID, name string, unitPrice float64, image string) (*domain.LineItem, bool, error)
	Decrease(ctx context.Context, productID string) (*domain.LineItem, bool, error)
	Remove(ctx context.Context, productID string) error
	Snapshot(ctx context.Context) (*domain.CartSnapshot, error)
}

type CartHandler struct {
	cart     CartOperations
	validate *validatorv10.Validate
	timeout  time.Duration
}

func NewCartHandler(cart CartOperations, validate *validatorv10.Validate, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:     cart,
		validate: validate,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
	Image     string  `json:"image"`
}

type DecreaseRequestDTO struct {
	ProductID string `json:"productId" validate:"required"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeAndValidate(w, r, &req, h.validate) {
		return
	}

	item, created, err := h.cart.UpsertAdd(ctx, req.ProductID, req.Name, req.UnitPrice, req.Image)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, item)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snapshot, err := h.cart.Snapshot(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// DecreaseItem lowers a line's quantity by one. The response shape tells
// the caller whether the line was decremented (the updated line) or
// removed outright because its quantity hit zero.
func (h *CartHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req DecreaseRequestDTO
	if !decodeAndValidate(w, r, &req, h.validate) {
		return
	}

	item, removed, err := h.cart.Decrease(ctx, req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if removed {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"removed":   true,
			"productId": req.ProductID,
			"message":   "Item removed as quantity reached 0",
		})
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}

	if err := h.cart.Remove(ctx, productID); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Item removed successfully",
	})
}
