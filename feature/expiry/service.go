package expiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-guard/core/inventory"
	"inventory-guard/core/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrRollbackFailed is returned when an order was moved to TIMEOUT but its
// reserved stock could not be released. The order is left in TIMEOUT and the
// release is not retried; the reserved units need a manual correction.
var ErrRollbackFailed = errors.New("stock rollback failed")

// OrderLedger is the part of the order ledger the sweep needs.
type OrderLedger interface {
	FindByID(ctx context.Context, id string) (*inventory.Order, error)
	FindByStatusOlderThan(ctx context.Context, status inventory.OrderStatus, cutoff time.Time, limit int) ([]inventory.Order, error)
	ConditionalSetStatus(ctx context.Context, id string, expected, next inventory.OrderStatus) (bool, error)
}

// StockAdjuster applies atomic deltas to the live stock counters.
type StockAdjuster interface {
	Adjust(ctx context.Context, sku string, availableDelta, reservedDelta int64) error
}

// SweepResult summarises one sweep pass.
type SweepResult struct {
	Candidates     int `json:"candidates"`
	Expired        int `json:"expired"`
	Skipped        int `json:"skipped"`
	Failed         int `json:"failed"`
	RollbackFailed int `json:"rollback_failed"`
}

// Service expires unpaid orders and releases their reservations.
type Service struct {
	ledger  OrderLedger
	stock   StockAdjuster
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewService creates the expiry service.
func NewService(ledger OrderLedger, stock StockAdjuster, logger *zap.Logger, m *metrics.Metrics, tracer trace.Tracer) *Service {
	return &Service{
		ledger:  ledger,
		stock:   stock,
		logger:  logger,
		metrics: m,
		tracer:  tracer,
		now:     time.Now,
	}
}

// Expire moves a PENDING_PAYMENT order to TIMEOUT and releases its stock.
//
// It returns false with a nil error when the order is no longer pending,
// which is the normal outcome of racing the payment path. When the status
// changed but the stock release failed, it returns true together with an
// error wrapping ErrRollbackFailed.
func (s *Service) Expire(ctx context.Context, orderID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "expiry.Expire", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	order, err := s.ledger.FindByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load order")
		return false, err
	}
	if order.Status != inventory.StatusPendingPayment {
		return false, nil
	}

	expired, err := s.expire(ctx, *order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "expire order")
	}
	return expired, err
}

// Sweep expires up to batchLimit orders that have been pending for at least
// gracePeriod. A failure to load the candidates aborts the pass; failures of
// single orders are counted and the pass continues.
func (s *Service) Sweep(ctx context.Context, gracePeriod time.Duration, batchLimit int) (SweepResult, error) {
	ctx, span := s.tracer.Start(ctx, "expiry.Sweep")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	var result SweepResult
	if batchLimit <= 0 {
		s.metrics.SweepFailures.Inc()
		return result, fmt.Errorf("batch limit must be positive, got %d", batchLimit)
	}
	cutoff := s.now().Add(-gracePeriod)

	orders, err := s.ledger.FindByStatusOlderThan(ctx, inventory.StatusPendingPayment, cutoff, batchLimit)
	if err != nil {
		s.metrics.SweepFailures.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "load candidates")
		return result, fmt.Errorf("failed to load expiry candidates: %w", err)
	}
	result.Candidates = len(orders)

	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("sweep interrupted after %d of %d orders: %w",
				result.Expired+result.Skipped+result.Failed, result.Candidates, err)
		}

		expired, err := s.expire(ctx, order)
		switch {
		case errors.Is(err, ErrRollbackFailed):
			result.RollbackFailed++
			result.Failed++
		case err != nil:
			s.logger.Warn("Failed to expire order", zap.String("order_id", order.ID), zap.Error(err))
			result.Failed++
		case expired:
			result.Expired++
		default:
			result.Skipped++
		}
	}

	span.SetAttributes(
		attribute.Int("sweep.candidates", result.Candidates),
		attribute.Int("sweep.expired", result.Expired),
		attribute.Int("sweep.failed", result.Failed),
	)
	return result, nil
}

func (s *Service) expire(ctx context.Context, order inventory.Order) (bool, error) {
	ok, err := s.ledger.ConditionalSetStatus(ctx, order.ID, inventory.StatusPendingPayment, inventory.StatusTimeout)
	if err != nil {
		return false, err
	}
	if !ok {
		s.logger.Debug("Order settled concurrently, not expiring", zap.String("order_id", order.ID))
		return false, nil
	}

	if err := s.stock.Adjust(ctx, order.SKU, order.Quantity, -order.Quantity); err != nil {
		s.metrics.RollbackFailures.Inc()
		s.logger.Error("Order timed out but reserved stock was not released",
			zap.String("order_id", order.ID),
			zap.String("sku", order.SKU),
			zap.Int64("quantity", order.Quantity),
			zap.Error(err))
		return true, fmt.Errorf("order %s: %w: %w", order.ID, ErrRollbackFailed, err)
	}

	s.metrics.OrdersExpired.Inc()
	return true, nil
}
