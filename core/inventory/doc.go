// Package inventory holds the domain types shared by the stock store, the
// order ledger and the features operating on them.
//
// Only PENDING_PAYMENT is a non-terminal order status. The expiry feature moves
// abandoned PENDING_PAYMENT orders to TIMEOUT; PAID and CANCELLED are written by
// the payment and order paths outside this repository.
package inventory
