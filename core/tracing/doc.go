// Package tracing wires OpenTelemetry with a Jaeger exporter.
package tracing
