package expiry_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-guard/core/inventory"
	"inventory-guard/core/metrics"
	"inventory-guard/feature/expiry"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type stubLedger struct {
	orders []inventory.Order
	err    error
}

func (s *stubLedger) FindByID(context.Context, string) (*inventory.Order, error) {
	return nil, inventory.ErrNotFound
}

func (s *stubLedger) FindByStatusOlderThan(context.Context, inventory.OrderStatus, time.Time, int) ([]inventory.Order, error) {
	return s.orders, s.err
}

func (s *stubLedger) ConditionalSetStatus(context.Context, string, inventory.OrderStatus, inventory.OrderStatus) (bool, error) {
	return true, nil
}

type stubStock struct{}

func (stubStock) Adjust(context.Context, string, int64, int64) error { return nil }

func newApp(ledger expiry.OrderLedger) *fiber.App {
	logger := zap.NewNop()
	svc := expiry.NewService(ledger, stubStock{}, logger, metrics.NewNop(), noop.NewTracerProvider().Tracer(""))
	runner := expiry.NewRunner(svc, expiry.Config{GracePeriodMinutes: 10, BatchLimit: 100}, logger)

	app := fiber.New()
	feature := expiry.NewFeature(runner, logger)
	if err := feature.Load(app); err != nil {
		panic(err)
	}
	return app
}

func TestFeature_Metadata(t *testing.T) {
	f := expiry.NewFeature(nil, zap.NewNop())
	assert.Equal(t, "expiry", f.Name())
	assert.True(t, f.IsEnabled())
}

func TestHandleSweep(t *testing.T) {
	app := newApp(&stubLedger{orders: []inventory.Order{
		{ID: "o1", SKU: "A", Quantity: 1, Status: inventory.StatusPendingPayment},
		{ID: "o2", SKU: "B", Quantity: 2, Status: inventory.StatusPendingPayment},
	}})

	resp, err := app.Test(httptest.NewRequest("POST", "/expiry/sweep", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var result expiry.SweepResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, expiry.SweepResult{Candidates: 2, Expired: 2}, result)
}

func TestHandleSweep_Failure(t *testing.T) {
	app := newApp(&stubLedger{err: errors.New("ledger down")})

	resp, err := app.Test(httptest.NewRequest("POST", "/expiry/sweep", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "ledger down")
}

func TestHandleSweep_WrongMethod(t *testing.T) {
	app := newApp(&stubLedger{})

	resp, err := app.Test(httptest.NewRequest("GET", "/expiry/sweep", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}
