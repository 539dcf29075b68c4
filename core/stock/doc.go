// Package stock implements the live stock counters on Redis.
//
// Adjust runs a Lua script that applies the available and reserved deltas
// with HINCRBY, so a rollback never reads and rewrites the counter and
// cannot lose a concurrent deduction.
package stock
