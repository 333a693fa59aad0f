package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adarsh062/VibeCart/internal/cache"
	"github.com/adarsh062/VibeCart/internal/domain"
	"github.com/adarsh062/VibeCart/internal/repository"
	"golang.org/x/sync/singleflight"
)

// CartService is the aggregator over the single global cart. All
// read-then-write operations (UpsertAdd, Decrease, Remove, Clear) are
// serialized behind one mutex so two concurrent adds of the same product
// can never both observe "not found" and create duplicate lines. The
// unique index on product_id is the store-level backstop.
type CartService struct {
	repo  repository.LineItemRepository
	cache cache.SnapshotCache
	mu    sync.Mutex
	gen   atomic.Uint64      // bumped by every invalidation; stale snapshot fills check it
	sfg   singleflight.Group // Prevents cache stampede on snapshot reads
}

func NewCartService(repo repository.LineItemRepository, cache cache.SnapshotCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
	}
}

// UpsertAdd increments the quantity of an existing line or creates a new
// one with quantity 1. Display fields (name, price, image) are
// first-write-wins: an existing line keeps whatever was supplied when it
// was created, only its quantity changes. The returned bool is true when
// a new line was created.
func (s *CartService) UpsertAdd(ctx context.Context, productID, name string, unitPrice float64, image string) (*domain.LineItem, bool, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, false, fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return nil, false, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if unitPrice < 0 || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return nil, false, fmt.Errorf("%w: unitPrice must be a finite non-negative number", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.FindByProductID(ctx, productID)
	if err != nil && !errors.Is(err, repository.ErrLineNotFound) {
		return nil, false, storeFault("find line", err)
	}

	if existing != nil {
		updated, errUpdate := s.repo.UpdateQuantity(ctx, productID, existing.Quantity+1)
		if errUpdate != nil {
			return nil, false, storeFault("increment quantity", errUpdate)
		}
		s.invalidateCache()
		return updated, false, nil
	}

	item := &domain.LineItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Image:     image,
		Quantity:  1,
		AddedAt:   time.Now(),
	}
	if errInsert := s.repo.Insert(ctx, item); errInsert != nil {
		return nil, false, storeFault("insert line", errInsert)
	}

	s.invalidateCache()
	return item, true, nil
}

// Decrease lowers a line's quantity by one. When the quantity would drop
// to zero the line is deleted instead; the returned bool tells the caller
// which of the two happened (true means removed, item is nil).
func (s *CartService) Decrease(ctx context.Context, productID string) (*domain.LineItem, bool, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, false, fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrLineNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, storeFault("find line", err)
	}

	if existing.Quantity > 1 {
		updated, errUpdate := s.repo.UpdateQuantity(ctx, productID, existing.Quantity-1)
		if errUpdate != nil {
			return nil, false, storeFault("decrement quantity", errUpdate)
		}
		s.invalidateCache()
		return updated, false, nil
	}

	// Quantity 1: a line must never persist with quantity 0.
	if errDelete := s.repo.Delete(ctx, productID); errDelete != nil && !errors.Is(errDelete, repository.ErrLineNotFound) {
		return nil, false, storeFault("delete line", errDelete)
	}

	s.invalidateCache()
	return nil, true, nil
}

// Remove deletes a line unconditionally, regardless of quantity.
func (s *CartService) Remove(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrLineNotFound) {
			return ErrNotFound
		}
		return storeFault("delete line", err)
	}

	s.invalidateCache()
	return nil
}

// Snapshot returns every current line in insertion order plus the
// recomputed total. Quantity-0 lines cannot appear because they are
// deleted at write time, not filtered here. The store read runs outside
// the cart lock; only the cache fill takes it, and the fill is dropped
// when a write landed mid-read.
func (s *CartService) Snapshot(ctx context.Context) (*domain.CartSnapshot, error) {
	v, err, _ := s.sfg.Do("snapshot", func() (interface{}, error) {
		snapshot, errGet := s.cache.Get(ctx)
		if errGet == nil {
			return snapshot, nil
		}
		if !errors.Is(errGet, cache.ErrCacheMiss) {
			log.Printf("snapshot cache get error: %v", errGet)
		}

		gen := s.gen.Load()

		items, errList := s.repo.List(ctx)
		if errList != nil {
			return nil, storeFault("list lines", errList)
		}
		if items == nil {
			items = []domain.LineItem{}
		}

		snapshot = &domain.CartSnapshot{Items: items}
		snapshot.ComputeTotal()

		s.fillCache(gen, snapshot)

		return snapshot, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.CartSnapshot), nil
}

// Clear deletes every line while holding the cart lock, so no add or
// decrease can interleave with the settle transition. A fault here may
// leave the cart partially cleared; the error is surfaced untouched for
// the coordinator to classify.
func (s *CartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.DeleteAll(ctx); err != nil {
		return storeFault("clear cart", err)
	}

	s.invalidateCache()
	return nil
}

// fillCache writes a freshly computed snapshot to the cache unless a
// write invalidated it after the store read began. The generation check
// and the write run under the cart lock, so an invalidation cannot slip
// in between and re-caching a pre-write snapshot over it is impossible.
func (s *CartService) fillCache(gen uint64, snapshot *domain.CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen.Load() != gen {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, snapshot); err != nil {
		log.Printf("snapshot cache set error: %v", err)
	}
}

// invalidateCache runs with the cart lock held. The generation bump
// tells any in-flight snapshot fill that its data predates this write.
func (s *CartService) invalidateCache() {
	s.gen.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx); err != nil {
		log.Printf("snapshot cache invalidate error: %v", err)
	}
}

func storeFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}
