package expiry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Runner is the scheduled entry point of the sweep. Concurrent calls share
// one pass.
type Runner struct {
	service *Service
	cfg     Config
	logger  *zap.Logger
	group   singleflight.Group
}

// NewRunner creates a sweep runner.
func NewRunner(service *Service, cfg Config, logger *zap.Logger) *Runner {
	return &Runner{service: service, cfg: cfg, logger: logger}
}

// Run executes one sweep pass with the configured grace period and batch limit.
// A panic inside the pass is returned as an error.
//
// The pass keeps the values of ctx but not its cancellation: callers joining
// an in-flight pass must not be cut short by the deadline of the caller that
// started it. The pass is bounded by the configured timeout instead.
func (r *Runner) Run(ctx context.Context) (SweepResult, error) {
	ch := r.group.DoChan("sweep", func() (any, error) {
		passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.PassTimeout())
		defer cancel()
		return r.sweep(passCtx)
	})

	select {
	case res := <-ch:
		result, _ := res.Val.(SweepResult)
		return result, res.Err
	case <-ctx.Done():
		return SweepResult{}, fmt.Errorf("waiting for timeout sweep: %w", ctx.Err())
	}
}

// RunTimeoutSweep runs a pass and logs the outcome. It never fails; the
// returned value is the number of orders expired.
func (r *Runner) RunTimeoutSweep(ctx context.Context) int {
	start := time.Now()
	result, err := r.Run(ctx)
	if err != nil {
		r.logger.Error("Timeout sweep failed",
			zap.Int("expired", result.Expired),
			zap.Error(err))
		return result.Expired
	}

	fields := []zap.Field{
		zap.Int("candidates", result.Candidates),
		zap.Int("expired", result.Expired),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Int("rollback_failed", result.RollbackFailed),
		zap.Duration("duration", time.Since(start)),
	}
	switch {
	case result.Failed > 0:
		r.logger.Warn("Timeout sweep completed with failures", fields...)
	case result.Candidates > 0:
		r.logger.Info("Timeout sweep completed", fields...)
	default:
		r.logger.Debug("Timeout sweep found nothing to expire", fields...)
	}
	return result.Expired
}

func (r *Runner) sweep(ctx context.Context) (result SweepResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("timeout sweep panicked: %v", p)
		}
	}()
	return r.service.Sweep(ctx, r.cfg.GracePeriod(), r.cfg.BatchLimit)
}
