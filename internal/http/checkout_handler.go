package http

import (
	"context"
	"net/http"
	"time"

	"github.com/adarsh062/VibeCart/internal/domain"
	validatorv10 "github.com/go-playground/validator/v10"
)

// CheckoutOperations is what the gateway needs from the coordinator.
type CheckoutOperations interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Receipt, error)
}

type CheckoutHandler struct {
	checkout CheckoutOperations
	validate *validatorv10.Validate
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutOperations, validate *validatorv10.Validate, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		validate: validate,
		timeout:  timeout,
	}
}

type CheckoutItemDTO struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"min=1"`
}

// CheckoutRequestDTO mirrors the checkout form: customer fields plus the
// client's locally held cart view and its taxed total. The total is
// trusted as-is; the coordinator does not compare it against the
// server-held cart.
type CheckoutRequestDTO struct {
	Name      string            `json:"name" validate:"required"`
	Email     string            `json:"email" validate:"required,email"`
	CartItems []CheckoutItemDTO `json:"cartItems" validate:"dive"`
	Total     float64           `json:"total" validate:"gte=0"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if !decodeAndValidate(w, r, &req, h.validate) {
		return
	}

	items := make([]domain.LineItem, 0, len(req.CartItems))
	for _, it := range req.CartItems {
		items = append(items, domain.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	receipt, err := h.checkout.Checkout(ctx, domain.CheckoutRequest{
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		Items:         items,
		Total:         req.Total,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, receipt)
}
