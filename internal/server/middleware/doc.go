// Package middleware provides gin middleware for the API server:
// panic recovery, request identity, structured request logging,
// Prometheus metrics, token-bucket rate limiting, and a circuit
// breaker guarding the upstream-backed routes.
package middleware
