package catalog

import (
	"context"
	"errors"

	"github.com/adarsh062/VibeCart/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog is the read-only product collaborator. The cart owes it
// nothing: it is listed through to the client and never written.
type Catalog interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Close() error
}
