package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-guard/core/activity"
	"inventory-guard/core/metrics"
	"inventory-guard/core/notify"
	"inventory-guard/feature/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxListedSkus bounds the products named in a discrepancy alert body.
const maxListedSkus = 10

// Service turns reconciliation outcomes into alerts and the pause decision.
type Service struct {
	thresholds Thresholds
	notifier   notify.Notifier
	activity   activity.Controller
	logger     *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewService creates the alert service.
func NewService(thresholds Thresholds, notifier notify.Notifier, ctrl activity.Controller, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		thresholds: thresholds,
		notifier:   notifier,
		activity:   ctrl,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// ShouldPauseActivity reports whether the report is bad enough to stop the sale:
// more than PauseRatio of the products diverged from the ledger, or one
// discrepancy is larger than CriticalMagnitude. Products that could not be
// evaluated are alerted on but do not count towards the pause. An empty
// report never pauses.
func (s *Service) ShouldPauseActivity(report *reconcile.Report) bool {
	if report == nil || report.TotalSkus == 0 {
		return false
	}
	if ratio(report.DivergedSkus, report.TotalSkus) > s.thresholds.PauseRatio {
		return true
	}
	if s.thresholds.CriticalMagnitude > 0 {
		for _, res := range report.Results {
			if res.Diverged() && res.Magnitude() > s.thresholds.CriticalMagnitude {
				return true
			}
		}
	}
	return false
}

// SendDiscrepancyAlert notifies operators about failed products. It does
// nothing when every product passed.
func (s *Service) SendDiscrepancyAlert(ctx context.Context, report *reconcile.Report) error {
	if report.AllPassed() {
		return nil
	}

	severity := notify.SeverityWarning
	if ratio(report.FailedSkus, report.TotalSkus) > s.thresholds.WarnRatio {
		severity = notify.SeverityCritical
	}

	return s.send(ctx, notify.Message{
		Kind:     notify.KindDiscrepancy,
		Severity: severity,
		Title:    "Inventory discrepancy detected",
		Body:     discrepancyBody(report),
		ReportID: report.ID,
	})
}

// PauseActivitiesAndNotify pauses the sale and announces it. Pausing an
// already paused sale is harmless.
func (s *Service) PauseActivitiesAndNotify(ctx context.Context, report *reconcile.Report, reason string) error {
	if err := s.activity.Pause(ctx, reason); err != nil {
		return fmt.Errorf("failed to pause activities: %w", err)
	}
	s.metrics.ActivityPaused.Set(1)
	s.logger.Warn("Activities paused", zap.String("reason", reason))

	msg := notify.Message{
		Kind:     notify.KindActivityPaused,
		Severity: notify.SeverityCritical,
		Title:    "Flash sale activities paused",
		Body:     reason + ". Resume manually once the stock is corrected.",
	}
	if report != nil {
		msg.ReportID = report.ID
	}
	return s.send(ctx, msg)
}

// SendReconciliationErrorAlert reports that reconciliation could not run.
// It is a separate kind so it is never mistaken for a clean or failed report.
func (s *Service) SendReconciliationErrorAlert(ctx context.Context, err error) error {
	return s.send(ctx, notify.Message{
		Kind:     notify.KindReconciliationError,
		Severity: notify.SeverityCritical,
		Title:    "Inventory reconciliation could not complete",
		Body:     fmt.Sprintf("Stock consistency is unverified until the next successful run: %v", err),
	})
}

func (s *Service) send(ctx context.Context, msg notify.Message) error {
	msg.ID = uuid.NewString()
	msg.At = s.now().UTC()

	if err := s.notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s alert: %w", msg.Kind, err)
	}
	s.metrics.AlertsSent.WithLabelValues(string(msg.Kind)).Inc()
	return nil
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func discrepancyBody(report *reconcile.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d products failed reconciliation, total discrepancy %d.",
		report.FailedSkus, report.TotalSkus, report.TotalDiscrepancies())

	failed := report.FailedResults()
	for i, res := range failed {
		if i == maxListedSkus {
			fmt.Fprintf(&b, "\n... and %d more", len(failed)-maxListedSkus)
			break
		}
		if res.Error != "" {
			fmt.Fprintf(&b, "\n%s: unreadable (%s)", res.SKU, res.Error)
			continue
		}
		fmt.Fprintf(&b, "\n%s: available %d, ledger %d, discrepancy %+d; reserved %d, pending %d, discrepancy %+d",
			res.SKU, res.CacheCount, res.LedgerExpected, res.Discrepancy,
			res.Reserved, res.LedgerPending, res.ReservedDiscrepancy)
	}
	return b.String()
}
