package repository

import (
	"context"
	"errors"

	"github.com/adarsh062/VibeCart/internal/domain"
)

var (
	ErrLineNotFound = errors.New("line item not found")
)

// LineItemRepository is the store contract for cart lines. Each operation
// is atomic for a single document; there is no multi-document transaction
// guarantee, which is why DeleteAll can fail partway.
// Consumers define this interface, not the MongoDB implementation.
type LineItemRepository interface {
	FindByProductID(ctx context.Context, productID string) (*domain.LineItem, error)
	Insert(ctx context.Context, item *domain.LineItem) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) (*domain.LineItem, error)
	Delete(ctx context.Context, productID string) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context) ([]domain.LineItem, error)
}
