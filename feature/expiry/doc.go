// Package expiry reclaims stock held by orders that were never paid.
//
// A sweep selects PENDING_PAYMENT orders older than the grace period and
// expires each one with a conditional status update in the ledger followed
// by an atomic release of its reserved quantity in the stock store. The
// conditional update is the only synchronisation with the payment path: an
// order paid or cancelled in the meantime is skipped, and an order expired by
// a concurrent sweep is never released twice.
//
// Runner is the scheduled and on-demand entry point. It never lets an error
// or panic escape, so the periodic trigger keeps firing.
package expiry
