package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/adarsh062/VibeCart/internal/domain"
	"github.com/google/uuid"
)

// CheckoutPublisher announces a completed checkout downstream. Publishing
// is best-effort: the receipt is already final when it runs.
type CheckoutPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, req domain.CheckoutRequest, receipt domain.Receipt) error
}

// CheckoutService settles the cart: it clears every line as one logical
// step and produces a receipt. The caller-supplied total is echoed back
// verbatim and never re-validated against the server-held total; the
// client computes tax on its side and the coordinator trusts it.
type CheckoutService struct {
	cart      *CartService
	publisher CheckoutPublisher
	settling  atomic.Bool
}

func NewCheckoutService(cart *CartService, publisher CheckoutPublisher) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		publisher: publisher,
	}
}

// Checkout performs the Active -> Settling -> Active transition. The
// clear runs under the cart lock, so a line added during the delete
// cannot survive it unnoticed. Every clear fault is reported as a
// partial failure: the store's bulk delete cannot say whether it failed
// before or after removing lines, so the conservative classification
// wins. The cart is left as the store left it, no rollback is attempted.
func (s *CheckoutService) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Receipt, error) {
	s.settling.Store(true)
	defer s.settling.Store(false)

	if err := s.cart.Clear(ctx); err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrPartialCheckout, err)
		}
		return nil, err
	}

	receipt := domain.Receipt{
		ReceiptID:  uuid.NewString(),
		Success:    true,
		Message:    "Checkout successful!",
		FinalTotal: req.Total,
		Timestamp:  time.Now(),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCheckoutCompleted(ctx, req, receipt); err != nil {
			log.Printf("checkout event publish error: %v", err)
		}
	}

	return &receipt, nil
}

// State reports whether a settle is in flight.
func (s *CheckoutService) State() domain.CartState {
	if s.settling.Load() {
		return domain.CartStateSettling
	}
	return domain.CartStateActive
}
