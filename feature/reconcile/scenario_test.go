package reconcile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"inventory-guard/core/database"
	"inventory-guard/core/inventory"
	"inventory-guard/core/ledger"
	"inventory-guard/core/metrics"
	"inventory-guard/core/stock"
	"inventory-guard/feature/expiry"
	"inventory-guard/feature/reconcile"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type scenario struct {
	repo   *ledger.Repository
	store  *stock.Store
	engine *reconcile.Engine
	logger *zap.Logger
	m      *metrics.Metrics
	tracer trace.Tracer
}

// newScenario sets up product A with 10 units, 3 paid by P1 and 2 held by O1,
// which was abandoned 11 minutes ago.
func newScenario(t *testing.T) *scenario {
	t.Helper()
	ctx := context.Background()
	sc := &scenario{
		logger: zap.NewNop(),
		m:      metrics.NewNop(),
		tracer: noop.NewTracerProvider().Tracer(""),
	}

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	sc.repo = ledger.NewRepository(db)
	require.NoError(t, sc.repo.Migrate(ctx))

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	sc.store = stock.NewStore(client)

	require.NoError(t, db.Create(&ledger.SaleProduct{SKU: "A", InitialStock: 10}).Error)
	created := time.Now().UTC().Add(-11 * time.Minute)
	for _, o := range []ledger.OrderModel{
		{ID: "P1", SKU: "A", UserID: "u1", Quantity: 3, Status: string(inventory.StatusPaid), CreatedAt: created, UpdatedAt: created},
		{ID: "O1", SKU: "A", UserID: "u2", Quantity: 2, Status: string(inventory.StatusPendingPayment), CreatedAt: created, UpdatedAt: created},
	} {
		require.NoError(t, db.Create(&o).Error)
	}
	require.NoError(t, sc.store.Seed(ctx, "A", inventory.StockCounter{Available: 5, Reserved: 2}))

	sc.engine = reconcile.NewEngine(sc.repo, sc.store, reconcile.Config{Concurrency: 2}, sc.logger, sc.m, sc.tracer)
	return sc
}

func (sc *scenario) sweeper(adjuster expiry.StockAdjuster) *expiry.Runner {
	return expiry.NewRunner(
		expiry.NewService(sc.repo, adjuster, sc.logger, sc.m, sc.tracer),
		expiry.Config{GracePeriodMinutes: 10, BatchLimit: 500},
		sc.logger,
	)
}

func (sc *scenario) reconcileA(t *testing.T) reconcile.SkuResult {
	t.Helper()
	report, err := sc.engine.FullReconcile(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	return report.Results[0]
}

// An abandoned reservation is expired by the sweep and the next
// reconciliation finds the units back in the available count.
func TestSweepThenReconcile(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)

	// before the sweep the 2 units are still held by O1 and not sellable
	before := sc.reconcileA(t)
	assert.True(t, before.Passed)
	assert.Equal(t, int64(5), before.CacheCount)
	assert.Equal(t, int64(2), before.Reserved)
	assert.Equal(t, int64(2), before.LedgerPending)

	assert.Equal(t, 1, sc.sweeper(sc.store).RunTimeoutSweep(ctx))

	o1, err := sc.repo.FindByID(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusTimeout, o1.Status)

	counter, err := sc.store.Read(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, inventory.StockCounter{Available: 7, Reserved: 0}, counter)

	after := sc.reconcileA(t)
	assert.True(t, after.Passed)
	assert.Equal(t, int64(7), after.CacheCount)
	assert.Equal(t, int64(7), after.LedgerExpected)
	assert.Equal(t, int64(0), after.Reserved)
	assert.Equal(t, int64(0), after.LedgerPending)
}

type brokenAdjuster struct{}

func (brokenAdjuster) Adjust(context.Context, string, int64, int64) error {
	return errors.New("READONLY You can't write against a read only replica")
}

// When the order times out but its stock is not released, the next
// reconciliation flags the product.
func TestFailedRollbackThenReconcile(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)

	result, err := sc.sweeper(brokenAdjuster{}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, expiry.SweepResult{Candidates: 1, Failed: 1, RollbackFailed: 1}, result)

	o1, err := sc.repo.FindByID(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusTimeout, o1.Status)

	res := sc.reconcileA(t)
	assert.False(t, res.Passed)
	assert.Empty(t, res.Error)
	assert.Equal(t, int64(5), res.CacheCount)
	assert.Equal(t, int64(7), res.LedgerExpected)
	assert.Equal(t, int64(-2), res.Discrepancy)
	assert.Equal(t, int64(2), res.ReservedDiscrepancy)
}
