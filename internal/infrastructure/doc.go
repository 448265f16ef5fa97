// Package infrastructure provides the cross-cutting runtime pieces:
// structured logging with trace ID propagation, OpenTelemetry metric
// setup with a Prometheus exporter, and the engine metric
// instruments.
package infrastructure
