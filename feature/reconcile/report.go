package reconcile

import (
	"fmt"
	"time"

	"inventory-guard/core/utils"
)

// SkuResult is the comparison of one product.
//
// Both counters are checked against the ledger: the available count against
// the stock that is neither paid nor held by a pending order, and the reserved
// count against the quantity of pending orders.
type SkuResult struct {
	SKU string `json:"sku"`
	// CacheCount is the available count of the live counter.
	CacheCount int64 `json:"cache_count"`
	// LedgerExpected is the initial stock minus paid and pending quantities.
	LedgerExpected int64 `json:"ledger_expected"`
	// Discrepancy is CacheCount minus LedgerExpected.
	Discrepancy int64 `json:"discrepancy"`
	Reserved    int64 `json:"reserved"`
	// LedgerPending is the quantity of PENDING_PAYMENT orders.
	LedgerPending int64 `json:"ledger_pending"`
	// ReservedDiscrepancy is Reserved minus LedgerPending.
	ReservedDiscrepancy int64 `json:"reserved_discrepancy"`
	Passed              bool  `json:"passed"`
	// Error is set when the product could not be read. Such a result never passes.
	Error string `json:"error,omitempty"`
}

// Magnitude is the larger of the two absolute discrepancies.
func (r SkuResult) Magnitude() int64 {
	return max(utils.Abs(r.Discrepancy), utils.Abs(r.ReservedDiscrepancy))
}

// Diverged reports whether the product was read and its counts disagree with the ledger.
func (r SkuResult) Diverged() bool {
	return !r.Passed && r.Error == ""
}

// Report is the outcome of a full reconciliation pass. It is not modified
// after FullReconcile returns it.
type Report struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Results    []SkuResult `json:"results"`
	TotalSkus  int         `json:"total_skus"`
	PassedSkus int         `json:"passed_skus"`
	FailedSkus int         `json:"failed_skus"`
	// DivergedSkus counts the failed products that were read. The rest of the
	// failures could not be evaluated.
	DivergedSkus int `json:"diverged_skus"`
}

// AllPassed reports whether no product failed.
func (r *Report) AllPassed() bool {
	return r.FailedSkus == 0
}

// TotalDiscrepancies sums the magnitudes of all products.
func (r *Report) TotalDiscrepancies() int64 {
	var total int64
	for _, res := range r.Results {
		total += res.Magnitude()
	}
	return total
}

// FailedResults returns the failed products in SKU order.
func (r *Report) FailedResults() []SkuResult {
	var failed []SkuResult
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}

// ExecutionError means a reconciliation pass could not be completed. It is
// never a statement about the stock itself.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("reconciliation %s failed: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
