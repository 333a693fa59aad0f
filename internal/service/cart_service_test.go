package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/adarsh062/VibeCart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartService() (*CartService, *mockRepository) {
	repo := &mockRepository{}
	return NewCartService(repo, missCache{}), repo
}

func TestUpsertAdd_CreatesLineWithQuantityOne(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	item, created, err := svc.UpsertAdd(ctx, "p1", "Classic T-Shirt", 25.99, "/images/tshirt.jpg")
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 25.99, item.UnitPrice)
	assert.False(t, item.AddedAt.IsZero())
}

func TestUpsertAdd_SameProductTwice_OneLineQuantityTwo(t *testing.T) {
	svc, repo := newTestCartService()
	ctx := context.Background()

	_, created, err := svc.UpsertAdd(ctx, "p1", "Classic T-Shirt", 10, "")
	require.NoError(t, err)
	assert.True(t, created)

	item, created, err := svc.UpsertAdd(ctx, "p1", "Classic T-Shirt", 10, "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, item.Quantity)

	// One line per productId, never two.
	require.Len(t, repo.items, 1)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, snapshot.Total)
}

func TestUpsertAdd_DisplayFieldsAreFirstWriteWins(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	_, _, err := svc.UpsertAdd(ctx, "p1", "Original Name", 10, "original.jpg")
	require.NoError(t, err)

	item, _, err := svc.UpsertAdd(ctx, "p1", "Different Name", 99, "different.jpg")
	require.NoError(t, err)

	assert.Equal(t, "Original Name", item.Name)
	assert.Equal(t, 10.0, item.UnitPrice)
	assert.Equal(t, "original.jpg", item.Image)
	assert.Equal(t, 2, item.Quantity)
}

func TestUpsertAdd_Validation(t *testing.T) {
	svc, repo := newTestCartService()
	ctx := context.Background()

	tests := []struct {
		name      string
		productID string
		itemName  string
		price     float64
	}{
		{"empty product id", "", "Shirt", 10},
		{"blank product id", "   ", "Shirt", 10},
		{"empty name", "p1", "", 10},
		{"negative price", "p1", "Shirt", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.UpsertAdd(ctx, tt.productID, tt.itemName, tt.price, "")
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	// Nothing touched the store.
	assert.Empty(t, repo.items)
}

func TestUpsertAdd_StoreFault(t *testing.T) {
	repo := &mockRepository{err: errors.New("connection reset")}
	svc := NewCartService(repo, missCache{})

	_, _, err := svc.UpsertAdd(context.Background(), "p1", "Shirt", 10, "")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestDecrease_QuantityAboveOne_Decrements(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := svc.UpsertAdd(ctx, "p1", "Shirt", 10, "")
		require.NoError(t, err)
	}

	item, removed, err := svc.Decrease(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, item.Quantity)
}

func TestDecrease_QuantityOne_RemovesLine(t *testing.T) {
	svc, repo := newTestCartService()
	ctx := context.Background()

	_, _, err := svc.UpsertAdd(ctx, "p1", "Shirt", 10, "")
	require.NoError(t, err)

	item, removed, err := svc.Decrease(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, item)
	assert.Empty(t, repo.items)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
	assert.Equal(t, 0.0, snapshot.Total)
}

func TestDecrease_UnknownProduct_NotFound(t *testing.T) {
	svc, _ := newTestCartService()

	_, _, err := svc.Decrease(context.Background(), "never-added")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecrease_NeverLeavesQuantityBelowOne(t *testing.T) {
	svc, repo := newTestCartService()
	ctx := context.Background()

	_, _, err := svc.UpsertAdd(ctx, "p1", "Shirt", 10, "")
	require.NoError(t, err)
	_, _, err = svc.UpsertAdd(ctx, "p1", "Shirt", 10, "")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err := svc.Decrease(ctx, "p1")
		require.NoError(t, err)
		for _, item := range repo.items {
			assert.GreaterOrEqual(t, item.Quantity, 1)
		}
	}

	// Third decrease: the line is gone.
	_, _, err = svc.Decrease(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_DeletesRegardlessOfQuantity(t *testing.T) {
	svc, repo := newTestCartService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := svc.UpsertAdd(ctx, "p1", "Shirt", 10, "")
		require.NoError(t, err)
	}

	require.NoError(t, svc.Remove(ctx, "p1"))
	assert.Empty(t, repo.items)

	// Second remove reports nothing left to remove.
	assert.ErrorIs(t, svc.Remove(ctx, "p1"), ErrNotFound)
}

func TestSnapshot_TotalMatchesSumAfterEveryOperation(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	ops := []func() error{
		func() error { _, _, err := svc.UpsertAdd(ctx, "p1", "Shirt", 10, ""); return err },
		func() error { _, _, err := svc.UpsertAdd(ctx, "p2", "Beanie", 5, ""); return err },
		func() error { _, _, err := svc.UpsertAdd(ctx, "p1", "Shirt", 10, ""); return err },
		func() error { _, _, err := svc.Decrease(ctx, "p2"); return err },
		func() error { _, _, err := svc.UpsertAdd(ctx, "p2", "Beanie", 5, ""); return err },
	}

	for i, op := range ops {
		require.NoError(t, op(), "op %d", i)

		snapshot, err := svc.Snapshot(ctx)
		require.NoError(t, err)

		var want float64
		for _, item := range snapshot.Items {
			want += item.UnitPrice * float64(item.Quantity)
		}
		assert.Equal(t, want, snapshot.Total, "op %d", i)
	}
}

func TestSnapshot_PreservesInsertionOrder(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		_, _, err := svc.UpsertAdd(ctx, fmt.Sprintf("p%d", i), fmt.Sprintf("Product %d", i), float64(i), "")
		require.NoError(t, err)
	}
	// Re-adding p1 must not move it.
	_, _, err := svc.UpsertAdd(ctx, "p1", "Product 1", 1, "")
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	require.Len(t, snapshot.Items, 4)
	for i, item := range snapshot.Items {
		assert.Equal(t, fmt.Sprintf("p%d", i+1), item.ProductID)
	}
}

func TestSnapshot_ServedFromCache(t *testing.T) {
	repo := &mockRepository{}
	cached := &domain.CartSnapshot{
		Items: []domain.LineItem{{ProductID: "p1", UnitPrice: 10, Quantity: 2}},
		Total: 20,
	}
	svc := NewCartService(repo, &mockCache{snapshot: cached})

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, snapshot)
}

func TestSnapshot_CacheFaultFallsBackToStore(t *testing.T) {
	repo := &mockRepository{items: []domain.LineItem{
		{ProductID: "p1", Name: "Shirt", UnitPrice: 10, Quantity: 2},
	}}
	svc := NewCartService(repo, &mockCache{err: errors.New("redis down")})

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, 20.0, snapshot.Total)
}

func TestWrites_InvalidateCache(t *testing.T) {
	repo := &mockRepository{}
	mc := &mockCache{}
	svc := NewCartService(repo, mc)
	ctx := context.Background()

	_, _, err := svc.UpsertAdd(ctx, "p1", "Shirt", 10, "")
	require.NoError(t, err)
	_, _, err = svc.Decrease(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, 2, mc.deletes)
}

func TestSnapshot_WriteDuringFill_DoesNotRecacheStaleState(t *testing.T) {
	gate := newGateRepository()
	mc := &mockCache{}
	svc := NewCartService(gate, mc)
	ctx := context.Background()

	// A snapshot reads the empty cart, then stalls before its cache fill.
	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Snapshot(ctx)
		firstDone <- err
	}()
	<-gate.listEntered

	// A write lands and invalidates the cache while the read is stalled.
	_, created, err := svc.UpsertAdd(ctx, "p1", "Classic T-Shirt", 10, "")
	require.NoError(t, err)
	require.True(t, created)

	close(gate.listRelease)
	require.NoError(t, <-firstDone)

	// The pre-write snapshot must not have overwritten the invalidation.
	mc.m.Lock()
	assert.Nil(t, mc.snapshot)
	mc.m.Unlock()

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "p1", snapshot.Items[0].ProductID)
	assert.Equal(t, 10.0, snapshot.Total)
}

func TestConcurrentAdds_SameProduct_SingleLine(t *testing.T) {
	svc, repo := newTestCartService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.UpsertAdd(ctx, "p1", "Shirt", 10, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, repo.items, 1)
	assert.Equal(t, 2, repo.items[0].Quantity)
}

func TestConcurrentMixedOperations_InvariantsHold(t *testing.T) {
	svc, repo := newTestCartService()
	ctx := context.Background()

	const workers = 8
	const rounds = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			productID := fmt.Sprintf("p%d", w%3)
			for i := 0; i < rounds; i++ {
				if i%5 == 4 {
					_, _, _ = svc.Decrease(ctx, productID)
					continue
				}
				_, _, err := svc.UpsertAdd(ctx, productID, "Product", 2.5, "")
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, item := range repo.items {
		assert.False(t, seen[item.ProductID], "duplicate line for %s", item.ProductID)
		seen[item.ProductID] = true
		assert.GreaterOrEqual(t, item.Quantity, 1)
	}
}
