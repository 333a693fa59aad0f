package cache

import (
	"context"
	"errors"

	"github.com/adarsh062/VibeCart/internal/domain"
)

// SnapshotCache holds the computed cart snapshot between reads. A cache
// fault is never surfaced to callers; the service logs it and falls back
// to the store.
type SnapshotCache interface {
	Get(ctx context.Context) (*domain.CartSnapshot, error)
	Set(ctx context.Context, snapshot *domain.CartSnapshot) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
