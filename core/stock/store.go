package stock

import (
	"context"
	"fmt"

	"inventory-guard/core/inventory"
	"inventory-guard/core/utils"

	"github.com/redis/go-redis/v9"
)

const (
	fieldAvailable = "available"
	fieldReserved  = "reserved"
)

// adjustScript applies both deltas to the stock hash in one atomic step.
var adjustScript = redis.NewScript(`
-- KEYS[1]: stock hash of one SKU, e.g. stock:{sku-123}
-- ARGV[1]: available delta
-- ARGV[2]: reserved delta

-- 1. never create a counter for a SKU that was not seeded
if redis.call('exists', KEYS[1]) == 0 then
    return -1
end

-- 2. apply both deltas; HINCRBY composes with concurrent deductions
redis.call('hincrby', KEYS[1], 'available', ARGV[1])
redis.call('hincrby', KEYS[1], 'reserved', ARGV[2])
return 1
`)

// Store is the Redis implementation of the live stock counters.
// Every SKU is a hash with "available" and "reserved" fields.
type Store struct {
	client redis.UniversalClient
}

// NewStore creates a stock store on top of a Redis client.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Key returns the Redis key of a SKU's counter. The hash tag keeps the key
// on one cluster slot with any per-SKU companion keys.
func Key(sku string) string {
	return fmt.Sprintf("stock:{%s}", sku)
}

// Read returns the current counter of a SKU.
func (s *Store) Read(ctx context.Context, sku string) (inventory.StockCounter, error) {
	vals, err := s.client.HMGet(ctx, Key(sku), fieldAvailable, fieldReserved).Result()
	if err != nil {
		return inventory.StockCounter{}, fmt.Errorf("failed to read stock of %s: %w", sku, err)
	}
	if vals[0] == nil && vals[1] == nil {
		return inventory.StockCounter{}, fmt.Errorf("stock counter %s: %w", sku, inventory.ErrNotFound)
	}

	var counter inventory.StockCounter
	if vals[0] != nil {
		if counter.Available, err = utils.ParseInt64(vals[0]); err != nil {
			return inventory.StockCounter{}, fmt.Errorf("available count for %s: %w: %w", sku, inventory.ErrCorrupt, err)
		}
	}
	if vals[1] != nil {
		if counter.Reserved, err = utils.ParseInt64(vals[1]); err != nil {
			return inventory.StockCounter{}, fmt.Errorf("reserved count for %s: %w: %w", sku, inventory.ErrCorrupt, err)
		}
	}
	return counter, nil
}

// Adjust atomically adds the deltas to the SKU's available and reserved counts.
func (s *Store) Adjust(ctx context.Context, sku string, availableDelta, reservedDelta int64) error {
	result, err := adjustScript.Run(ctx, s.client, []string{Key(sku)}, availableDelta, reservedDelta).Result()
	if err != nil {
		return fmt.Errorf("failed to adjust stock of %s: %w", sku, err)
	}

	code, err := utils.ParseInt64(result)
	if err != nil {
		return fmt.Errorf("unexpected result from adjust script: %w", err)
	}
	if code == -1 {
		return fmt.Errorf("stock counter %s: %w", sku, inventory.ErrNotFound)
	}
	return nil
}

// Seed overwrites the counter of a SKU. It is meant for sale setup and tests.
func (s *Store) Seed(ctx context.Context, sku string, counter inventory.StockCounter) error {
	err := s.client.HSet(ctx, Key(sku), fieldAvailable, counter.Available, fieldReserved, counter.Reserved).Err()
	if err != nil {
		return fmt.Errorf("failed to seed stock of %s: %w", sku, err)
	}
	return nil
}
