package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OrdersExpired.Add(3)
	m.SkuDiscrepancy.WithLabelValues("A").Set(-2)
	m.ReconcileRuns.WithLabelValues("failed").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.OrdersExpired))
	assert.Equal(t, -2.0, testutil.ToFloat64(m.SkuDiscrepancy.WithLabelValues("A")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "inventory_guard_expiry_orders_expired_total")
	assert.Contains(t, names, "inventory_guard_reconcile_sku_discrepancy")
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestNewNop_Independent(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
