package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"inventory-guard/core/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AlertService reacts to reconciliation outcomes.
type AlertService interface {
	ShouldPauseActivity(report *Report) bool
	SendDiscrepancyAlert(ctx context.Context, report *Report) error
	PauseActivitiesAndNotify(ctx context.Context, report *Report, reason string) error
	SendReconciliationErrorAlert(ctx context.Context, err error) error
}

// Archiver keeps a copy of every completed report.
type Archiver interface {
	Archive(ctx context.Context, report *Report) error
}

// Runner is the scheduled and on-demand entry point of reconciliation.
// Concurrent calls share one pass.
type Runner struct {
	engine   *Engine
	alerts   AlertService
	archiver Archiver
	logger   *zap.Logger
	metrics  *metrics.Metrics
	group    singleflight.Group

	mu   sync.RWMutex
	last *Report
}

// NewRunner creates a reconciliation runner. archiver may be nil.
func NewRunner(engine *Engine, alerts AlertService, archiver Archiver, logger *zap.Logger, m *metrics.Metrics) *Runner {
	return &Runner{
		engine:   engine,
		alerts:   alerts,
		archiver: archiver,
		logger:   logger,
		metrics:  m,
	}
}

// RunFullReconciliation runs a pass and routes the outcome to alerting.
//
// It returns either the report or an *ExecutionError, never both. An
// execution failure, including an unreachable store, only triggers the
// reconciliation-error alert; a report with failed products triggers the
// discrepancy alert and, past the pause thresholds, pauses the sale. Panics
// are recovered as execution failures.
//
// The shared pass runs detached from the cancellation of ctx and is bounded
// by the configured timeout. A caller whose ctx ends first stops waiting
// without aborting the pass for the others.
func (r *Runner) RunFullReconciliation(ctx context.Context) (*Report, error) {
	ch := r.group.DoChan("reconcile", func() (any, error) {
		passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.engine.cfg.PassTimeout())
		defer cancel()
		return r.run(passCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Report), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for reconciliation: %w", ctx.Err())
	}
}

// LastReport returns the most recent completed report, or nil.
func (r *Runner) LastReport() *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

func (r *Runner) run(ctx context.Context) (report *Report, err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			report = nil
			err = r.executionFailed(ctx, &ExecutionError{Op: "run", Err: fmt.Errorf("panic: %v", p)})
		}
	}()

	report, err = r.engine.FullReconcile(ctx)
	if err != nil {
		var execErr *ExecutionError
		if !errors.As(err, &execErr) {
			execErr = &ExecutionError{Op: "run", Err: err}
		}
		return nil, r.executionFailed(ctx, execErr)
	}

	r.record(report)

	if r.archiver != nil {
		if err := r.archiver.Archive(ctx, report); err != nil {
			r.logger.Warn("Failed to archive reconciliation report",
				zap.String("report_id", report.ID), zap.Error(err))
		}
	}

	fields := []zap.Field{
		zap.String("report_id", report.ID),
		zap.Int("total_skus", report.TotalSkus),
		zap.Int("failed_skus", report.FailedSkus),
		zap.Int64("total_discrepancies", report.TotalDiscrepancies()),
		zap.Duration("duration", time.Since(start)),
	}
	if report.AllPassed() {
		r.metrics.ReconcileRuns.WithLabelValues("passed").Inc()
		r.logger.Info("Reconciliation passed", fields...)
		return report, nil
	}

	r.metrics.ReconcileRuns.WithLabelValues("failed").Inc()
	r.logger.Warn("Reconciliation found discrepancies", fields...)

	if err := r.alerts.SendDiscrepancyAlert(ctx, report); err != nil {
		r.logger.Error("Failed to send discrepancy alert", zap.String("report_id", report.ID), zap.Error(err))
	}
	if r.alerts.ShouldPauseActivity(report) {
		reason := fmt.Sprintf("%d of %d products failed reconciliation (report %s)",
			report.DivergedSkus, report.TotalSkus, report.ID)
		if err := r.alerts.PauseActivitiesAndNotify(ctx, report, reason); err != nil {
			r.logger.Error("Failed to pause activities", zap.String("report_id", report.ID), zap.Error(err))
		}
	}
	return report, nil
}

func (r *Runner) executionFailed(ctx context.Context, execErr *ExecutionError) error {
	r.metrics.ReconcileRuns.WithLabelValues("error").Inc()
	r.logger.Error("Reconciliation could not complete", zap.Error(execErr))
	if err := r.alerts.SendReconciliationErrorAlert(ctx, execErr); err != nil {
		r.logger.Error("Failed to send reconciliation error alert", zap.Error(err))
	}
	return execErr
}

func (r *Runner) record(report *Report) {
	r.mu.Lock()
	r.last = report
	r.mu.Unlock()

	r.metrics.ReconcileFailedSkus.Set(float64(report.FailedSkus))
	r.metrics.SkuDiscrepancy.Reset()
	for _, res := range report.Results {
		r.metrics.SkuDiscrepancy.WithLabelValues(res.SKU).Set(float64(res.Discrepancy))
	}
}
