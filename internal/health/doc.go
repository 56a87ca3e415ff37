// Package health provides liveness and readiness probes served on the
// admin port. Liveness is a static ping; readiness runs the registered
// dependency checks (inference server reachability, relayer
// configuration) and degrades or fails accordingly.
package health
