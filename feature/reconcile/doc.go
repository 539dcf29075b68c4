// Package reconcile detects divergence between the live stock counters and
// the order ledger.
//
// For every product with an active sale the engine computes
//
//	discrepancy         = available - (initialStock - paidQuantity - pendingQuantity)
//	reservedDiscrepancy = reserved - pendingQuantity
//
// and fails the product when either magnitude exceeds the tolerance. PAID
// orders are consumed, PENDING_PAYMENT orders are held in the reserved count,
// and TIMEOUT and CANCELLED orders hold no stock.
//
// A missing or corrupt record fails only its product. Any other read error
// means a store is unreachable and aborts the pass.
//
// Runner turns a pass into one of two outcomes: a Report, forwarded to the
// discrepancy alert and pause decision when it has failures, or an
// *ExecutionError, forwarded to the reconciliation-error alert. Completed
// reports are kept in memory for the ops API and archived to object storage.
package reconcile
