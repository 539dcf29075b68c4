package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReport_Derived(t *testing.T) {
	r := &Report{
		Results: []SkuResult{
			{SKU: "A", Discrepancy: 2},
			{SKU: "B", Discrepancy: 0, Passed: true},
			{SKU: "C", Discrepancy: -3},
			{SKU: "D", Error: "read stock counter: not found"},
			{SKU: "E", Discrepancy: -2, ReservedDiscrepancy: 2},
		},
		TotalSkus:  5,
		PassedSkus: 1,
		FailedSkus: 4,
	}

	assert.False(t, r.AllPassed())
	assert.Equal(t, int64(7), r.TotalDiscrepancies())
	assert.Len(t, r.FailedResults(), 4)
	assert.Equal(t, "D", r.FailedResults()[2].SKU)
	assert.True(t, r.Results[0].Diverged())
	assert.False(t, r.Results[1].Diverged())
	assert.False(t, r.Results[3].Diverged())
	assert.Equal(t, int64(2), r.Results[4].Magnitude())
}

func TestReport_Empty(t *testing.T) {
	r := &Report{}
	assert.True(t, r.AllPassed())
	assert.Zero(t, r.TotalDiscrepancies())
	assert.Empty(t, r.FailedResults())
}

func TestConfig(t *testing.T) {
	assert.Equal(t, time.Hour, Config{IntervalMinutes: 60}.Interval())
	assert.Equal(t, defaultPassTimeout, Config{}.PassTimeout())
	assert.Equal(t, 2*time.Minute, Config{TimeoutMinutes: 2}.PassTimeout())

	valid := Config{IntervalMinutes: 60, Concurrency: 8, TimeoutMinutes: 10}
	assert.NoError(t, valid.Validate())
	valid.Concurrency = 0
	assert.ErrorContains(t, valid.Validate(), "concurrency must be positive")
}
