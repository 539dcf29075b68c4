// Package metrics defines the Prometheus collectors of the inventory guard.
package metrics
