// Package observability provides logging, metrics, and tracing for the
// sillyboy service.
//
// Logging is structured (zap) behind a small Logger interface so that
// components depend on the interface rather than on zap directly.
// Metrics are Prometheus collectors registered on the default registry
// and exposed via Handler. Tracing is OpenTelemetry with an OTLP gRPC
// exporter, disabled unless configured.
package observability
