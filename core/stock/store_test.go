package stock

import (
	"context"
	"sync"
	"testing"

	"inventory-guard/core/inventory"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client), srv
}

func TestStore_ReadSeeded(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx, "A", inventory.StockCounter{Available: 5, Reserved: 2}))

	counter, err := store.Read(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, inventory.StockCounter{Available: 5, Reserved: 2}, counter)
}

func TestStore_ReadMissing(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Read(context.Background(), "missing")
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestStore_ReadCorrupt(t *testing.T) {
	store, srv := setupStore(t)
	srv.HSet(Key("A"), "available", "lots")

	_, err := store.Read(context.Background(), "A")
	assert.ErrorIs(t, err, inventory.ErrCorrupt)
	assert.Contains(t, err.Error(), "available count for A")
}

func TestStore_Adjust(t *testing.T) {
	store, srv := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.Seed(ctx, "A", inventory.StockCounter{Available: 3, Reserved: 2}))

	require.NoError(t, store.Adjust(ctx, "A", 2, -2))

	assert.Equal(t, "5", srv.HGet(Key("A"), "available"))
	assert.Equal(t, "0", srv.HGet(Key("A"), "reserved"))
}

func TestStore_AdjustMissingDoesNotCreate(t *testing.T) {
	store, srv := setupStore(t)

	err := store.Adjust(context.Background(), "ghost", 1, -1)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
	assert.False(t, srv.Exists(Key("ghost")))
}

func TestStore_AdjustConcurrent(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.Seed(ctx, "A", inventory.StockCounter{Available: 100, Reserved: 50}))

	// 50 rollbacks of 1 racing 30 deductions of 1
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Adjust(ctx, "A", 1, -1))
		}()
	}
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Adjust(ctx, "A", -1, 1))
		}()
	}
	wg.Wait()

	counter, err := store.Read(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(120), counter.Available)
	assert.Equal(t, int64(30), counter.Reserved)
}

func TestStore_Unavailable(t *testing.T) {
	store, srv := setupStore(t)
	srv.Close()

	_, err := store.Read(context.Background(), "A")
	assert.Error(t, err)
	assert.Error(t, store.Adjust(context.Background(), "A", 1, -1))
}
