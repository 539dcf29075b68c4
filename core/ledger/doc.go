// Package ledger implements the durable order ledger on GORM.
//
// The ledger owns two tables: orders (one row per reservation, with status
// and reserved quantity) and sale_products (initial stock per SKU and whether
// its sale is active).
//
// # Conditional transitions
//
// ConditionalSetStatus is a single `UPDATE orders SET status=? WHERE id=? AND
// status=?`. The affected row count decides whether the caller won the race
// against the payment path; there is no read-then-write.
package ledger
