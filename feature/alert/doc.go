// Package alert reacts to reconciliation outcomes.
//
// Three alert kinds exist: DISCREPANCY for a completed report with failed
// products, ACTIVITY_PAUSED when the sale was stopped, and
// RECONCILIATION_ERROR when no report could be produced. The pause decision
// uses the failed share of products and, optionally, the largest single
// discrepancy. Resuming a paused sale is left to operators.
package alert
