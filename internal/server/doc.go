// Package server implements the public HTTP API: inference forwarding,
// character-aware generation, model listing, and the swap lifecycle
// endpoints. A separate admin server exposes health probes and
// Prometheus metrics.
package server
