package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"inventory-guard/core/inventory"
	"inventory-guard/core/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProductLedger is the part of the order ledger reconciliation reads.
type ProductLedger interface {
	ActiveProducts(ctx context.Context) ([]string, error)
	InitialStock(ctx context.Context, sku string) (int64, error)
	SumPaidQuantity(ctx context.Context, sku string) (int64, error)
	SumPendingQuantity(ctx context.Context, sku string) (int64, error)
}

// StockReader reads the live stock counters.
type StockReader interface {
	Read(ctx context.Context, sku string) (inventory.StockCounter, error)
}

// Engine compares the live counters with the stock the ledger implies.
type Engine struct {
	ledger  ProductLedger
	stock   StockReader
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewEngine creates a reconciliation engine.
func NewEngine(ledger ProductLedger, stock StockReader, cfg Config, logger *zap.Logger, m *metrics.Metrics, tracer trace.Tracer) *Engine {
	return &Engine{
		ledger:  ledger,
		stock:   stock,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		tracer:  tracer,
		now:     time.Now,
	}
}

// FullReconcile evaluates every product with an active sale.
//
// For each product the available count is compared with the initial stock
// minus the quantities of PAID and PENDING_PAYMENT orders, and the reserved
// count with the quantity of PENDING_PAYMENT orders. A reservation that was
// released in the ledger but not in the cache fails both checks. The two
// stores are read without a common transaction; a purchase landing between
// the reads shows up as a transient discrepancy.
//
// A product whose counter or sale record is missing or corrupt yields a failed
// result with Error set. Any other read error means a store is unreachable
// and aborts the pass with *ExecutionError, as does a pass in which no
// product could be read at all.
func (e *Engine) FullReconcile(ctx context.Context) (*Report, error) {
	ctx, span := e.tracer.Start(ctx, "reconcile.FullReconcile")
	defer span.End()

	start := time.Now()
	defer func() { e.metrics.ReconcileDuration.Observe(time.Since(start).Seconds()) }()

	abort := func(execErr *ExecutionError) (*Report, error) {
		span.RecordError(execErr)
		span.SetStatus(codes.Error, execErr.Op)
		return nil, execErr
	}

	skus, err := e.ledger.ActiveProducts(ctx)
	if err != nil {
		return abort(&ExecutionError{Op: "list active products", Err: err})
	}
	sort.Strings(skus)

	results := make([]SkuResult, len(skus))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency())
	for i, sku := range skus {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.evaluate(gctx, sku)
			results[i] = res
			return err
		})
	}
	waitErr := g.Wait()

	if err := ctx.Err(); err != nil {
		return abort(&ExecutionError{Op: "evaluate products", Err: err})
	}
	if waitErr != nil {
		return abort(&ExecutionError{Op: "evaluate products", Err: waitErr})
	}
	if unreadable(results) {
		return abort(&ExecutionError{
			Op:  "evaluate products",
			Err: fmt.Errorf("none of %d products could be read, first: %s", len(results), results[0].Error),
		})
	}

	report := &Report{
		ID:        uuid.NewString(),
		Timestamp: e.now().UTC(),
		Results:   results,
		TotalSkus: len(results),
	}
	for _, res := range results {
		switch {
		case res.Passed:
			report.PassedSkus++
		case res.Diverged():
			report.FailedSkus++
			report.DivergedSkus++
		default:
			report.FailedSkus++
		}
	}

	span.SetAttributes(
		attribute.String("report.id", report.ID),
		attribute.Int("report.total_skus", report.TotalSkus),
		attribute.Int("report.failed_skus", report.FailedSkus),
	)
	return report, nil
}

// evaluate compares one product. Errors that concern only this product are
// folded into the result; any other error is returned.
func (e *Engine) evaluate(ctx context.Context, sku string) (SkuResult, error) {
	result := SkuResult{SKU: sku}

	fail := func(what string, err error) (SkuResult, error) {
		if !isProductError(err) {
			return result, fmt.Errorf("%s of %s: %w", what, sku, err)
		}
		e.logger.Warn("Failed to reconcile product",
			zap.String("sku", sku),
			zap.String("step", what),
			zap.Error(err))
		result.Error = fmt.Sprintf("%s: %v", what, err)
		result.Passed = false
		return result, nil
	}

	counter, err := e.stock.Read(ctx, sku)
	if err != nil {
		return fail("read stock counter", err)
	}
	initial, err := e.ledger.InitialStock(ctx, sku)
	if err != nil {
		return fail("read initial stock", err)
	}
	paid, err := e.ledger.SumPaidQuantity(ctx, sku)
	if err != nil {
		return fail("sum paid quantity", err)
	}
	pending, err := e.ledger.SumPendingQuantity(ctx, sku)
	if err != nil {
		return fail("sum pending quantity", err)
	}

	result.CacheCount = counter.Available
	result.LedgerExpected = initial - paid - pending
	result.Discrepancy = result.CacheCount - result.LedgerExpected
	result.Reserved = counter.Reserved
	result.LedgerPending = pending
	result.ReservedDiscrepancy = result.Reserved - result.LedgerPending
	result.Passed = result.Magnitude() <= e.cfg.Tolerance
	return result, nil
}

// isProductError reports whether err is about the data of a single product
// rather than the reachability of a store.
func isProductError(err error) bool {
	return errors.Is(err, inventory.ErrNotFound) || errors.Is(err, inventory.ErrCorrupt)
}

func unreadable(results []SkuResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, res := range results {
		if res.Error == "" {
			return false
		}
	}
	return true
}

func (e *Engine) concurrency() int {
	if e.cfg.Concurrency <= 0 {
		return 1
	}
	return e.cfg.Concurrency
}
