package reconcile

import (
	"context"
	"fmt"

	"inventory-guard/core/inventory"

	"github.com/stretchr/testify/mock"
)

type stubLedger struct {
	skus    []string
	err     error
	initial map[string]int64
	paid    map[string]int64
	pending map[string]int64
	panics  bool
}

func (s *stubLedger) ActiveProducts(context.Context) ([]string, error) {
	if s.panics {
		panic("ledger driver bug")
	}
	return s.skus, s.err
}

func (s *stubLedger) InitialStock(_ context.Context, sku string) (int64, error) {
	return s.initial[sku], nil
}

func (s *stubLedger) SumPaidQuantity(_ context.Context, sku string) (int64, error) {
	return s.paid[sku], nil
}

func (s *stubLedger) SumPendingQuantity(_ context.Context, sku string) (int64, error) {
	return s.pending[sku], nil
}

type stubStock map[string]inventory.StockCounter

func (s stubStock) Read(_ context.Context, sku string) (inventory.StockCounter, error) {
	c, ok := s[sku]
	if !ok {
		return inventory.StockCounter{}, inventory.ErrNotFound
	}
	return c, nil
}

// downStock fails every read the way an unreachable Redis does.
type downStock struct{}

func (downStock) Read(_ context.Context, sku string) (inventory.StockCounter, error) {
	return inventory.StockCounter{}, fmt.Errorf("failed to read stock of %s: dial tcp 127.0.0.1:6379: connect: connection refused", sku)
}

type mockAlerts struct {
	mock.Mock
}

func (m *mockAlerts) ShouldPauseActivity(report *Report) bool {
	return m.Called(report).Bool(0)
}

func (m *mockAlerts) SendDiscrepancyAlert(ctx context.Context, report *Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockAlerts) PauseActivitiesAndNotify(ctx context.Context, report *Report, reason string) error {
	return m.Called(ctx, report, reason).Error(0)
}

func (m *mockAlerts) SendReconciliationErrorAlert(ctx context.Context, err error) error {
	return m.Called(ctx, err).Error(0)
}

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) Archive(ctx context.Context, report *Report) error {
	return m.Called(ctx, report).Error(0)
}
