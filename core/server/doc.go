// Package server holds the ops HTTP server configuration.
//
// The ops server exposes health, Prometheus metrics and on-demand triggers
// for the timeout sweep and the reconciliation pass. Requests are protected
// by an API key when one is configured.
package server
