package expiry

import (
	"context"
	"time"

	"inventory-guard/core/inventory"

	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) FindByID(ctx context.Context, id string) (*inventory.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Order), args.Error(1)
}

func (m *mockLedger) FindByStatusOlderThan(ctx context.Context, status inventory.OrderStatus, cutoff time.Time, limit int) ([]inventory.Order, error) {
	args := m.Called(ctx, status, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Order), args.Error(1)
}

func (m *mockLedger) ConditionalSetStatus(ctx context.Context, id string, expected, next inventory.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Bool(0), args.Error(1)
}

type mockStock struct {
	mock.Mock
}

func (m *mockStock) Adjust(ctx context.Context, sku string, availableDelta, reservedDelta int64) error {
	args := m.Called(ctx, sku, availableDelta, reservedDelta)
	return args.Error(0)
}

type panickingStock struct{}

func (panickingStock) Adjust(context.Context, string, int64, int64) error {
	panic("stock store exploded")
}
