package service

import (
	"context"
	"sync"

	"github.com/adarsh062/VibeCart/internal/cache"
	"github.com/adarsh062/VibeCart/internal/domain"
	"github.com/adarsh062/VibeCart/internal/repository"
)

// mockRepository keeps lines in insertion order like the store's
// added_at sort would. err, when set, is returned by every operation.
type mockRepository struct {
	m     sync.Mutex
	items []domain.LineItem
	err   error
}

func (m *mockRepository) FindByProductID(_ context.Context, productID string) (*domain.LineItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.items {
		if m.items[i].ProductID == productID {
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrLineNotFound
}

func (m *mockRepository) Insert(_ context.Context, item *domain.LineItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, *item)
	return nil
}

func (m *mockRepository) UpdateQuantity(_ context.Context, productID string, quantity int) (*domain.LineItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.items {
		if m.items[i].ProductID == productID {
			m.items[i].Quantity = quantity
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrLineNotFound
}

func (m *mockRepository) Delete(_ context.Context, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.items {
		if m.items[i].ProductID == productID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrLineNotFound
}

func (m *mockRepository) DeleteAll(_ context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = nil
	return nil
}

func (m *mockRepository) List(_ context.Context) ([]domain.LineItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.LineItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

type mockCache struct {
	m        sync.Mutex
	snapshot *domain.CartSnapshot
	err      error
	deletes  int
}

func (m *mockCache) Get(context.Context) (*domain.CartSnapshot, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.snapshot == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.snapshot, nil
}

func (m *mockCache) Set(_ context.Context, snapshot *domain.CartSnapshot) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.snapshot = snapshot
	return nil
}

func (m *mockCache) Delete(context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	m.snapshot = nil
	return m.err
}

// missCache always misses, so snapshots are recomputed from the
// repository on every read.
type missCache struct{}

func (missCache) Get(context.Context) (*domain.CartSnapshot, error) {
	return nil, cache.ErrCacheMiss
}
func (missCache) Set(context.Context, *domain.CartSnapshot) error { return nil }
func (missCache) Delete(context.Context) error                    { return nil }

// gateRepository wraps mockRepository so a List call can be held open
// after it has read the cart, letting a test land a write in the window
// between the store read and the cache fill.
type gateRepository struct {
	*mockRepository
	listEntered chan struct{}
	listRelease chan struct{}
}

func newGateRepository() *gateRepository {
	return &gateRepository{
		mockRepository: &mockRepository{},
		listEntered:    make(chan struct{}, 8),
		listRelease:    make(chan struct{}),
	}
}

func (g *gateRepository) List(ctx context.Context) ([]domain.LineItem, error) {
	items, err := g.mockRepository.List(ctx)
	g.listEntered <- struct{}{}
	<-g.listRelease
	return items, err
}

type mockPublisher struct {
	m        sync.Mutex
	requests []domain.CheckoutRequest
	receipts []domain.Receipt
	err      error
}

func (m *mockPublisher) PublishCheckoutCompleted(_ context.Context, req domain.CheckoutRequest, receipt domain.Receipt) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.requests = append(m.requests, req)
	m.receipts = append(m.receipts, receipt)
	return nil
}
