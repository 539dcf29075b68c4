package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory_guard"

// Metrics holds the collectors of the expiry and reconciliation loops.
type Metrics struct {
	OrdersExpired       prometheus.Counter
	RollbackFailures    prometheus.Counter
	SweepFailures       prometheus.Counter
	SweepDuration       prometheus.Histogram
	ReconcileRuns       *prometheus.CounterVec
	ReconcileFailedSkus prometheus.Gauge
	SkuDiscrepancy      *prometheus.GaugeVec
	ReconcileDuration   prometheus.Histogram
	AlertsSent          *prometheus.CounterVec
	ActivityPaused      prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersExpired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "expiry",
			Name:      "orders_expired_total",
			Help:      "Orders moved from PENDING_PAYMENT to TIMEOUT with their stock released.",
		}),
		RollbackFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "expiry",
			Name:      "rollback_failures_total",
			Help:      "Orders marked TIMEOUT whose stock release failed.",
		}),
		SweepFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "expiry",
			Name:      "sweep_failures_total",
			Help:      "Sweep passes aborted before processing candidates.",
		}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "expiry",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of timeout sweep passes.",
			Buckets:   prometheus.DefBuckets,
		}),
		ReconcileRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "runs_total",
			Help:      "Reconciliation passes by outcome.",
		}, []string{"outcome"}),
		ReconcileFailedSkus: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "failed_skus",
			Help:      "Failed products in the last reconciliation report.",
		}),
		SkuDiscrepancy: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "sku_discrepancy",
			Help:      "Signed cache minus ledger difference per product in the last report.",
		}, []string{"sku"}),
		ReconcileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "duration_seconds",
			Help:      "Duration of reconciliation passes.",
			Buckets:   prometheus.DefBuckets,
		}),
		AlertsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "sent_total",
			Help:      "Alerts sent by kind.",
		}, []string{"kind"}),
		ActivityPaused: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "activity_paused",
			Help:      "1 once this instance has paused the sale.",
		}),
	}
}

// NewNop returns collectors registered with a private registry, for tests
// and one-shot commands.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
