package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// DefaultCheckTimeout bounds each dependency check during a readiness
// probe.
const DefaultCheckTimeout = 5 * time.Second

// Status represents a probe status.
type Status string

const (
	// StatusHealthy indicates the service is healthy.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the service is unhealthy.
	StatusUnhealthy Status = "unhealthy"
	// StatusDegraded indicates the service is degraded but operational.
	StatusDegraded Status = "degraded"
)

// CheckFunc performs one dependency check. A nil return means the
// dependency is healthy.
type CheckFunc func(ctx context.Context) error

// check pairs a registered check with its criticality. Non-critical
// failures degrade readiness instead of failing it.
type check struct {
	fn       CheckFunc
	critical bool
}

// CheckResult is one dependency's probe outcome.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadinessResponse is the readiness payload.
type ReadinessResponse struct {
	Status    Status                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Checker runs registered dependency checks and serves probe
// endpoints.
type Checker struct {
	version      string
	startTime    time.Time
	checkTimeout time.Duration

	mu     sync.RWMutex
	checks map[string]check
}

// CheckerOption is a functional option for the checker.
type CheckerOption func(*Checker)

// WithCheckTimeout sets the per-check timeout for readiness probes.
func WithCheckTimeout(timeout time.Duration) CheckerOption {
	return func(c *Checker) {
		if timeout > 0 {
			c.checkTimeout = timeout
		}
	}
}

// NewChecker creates a health checker.
func NewChecker(version string, opts ...CheckerOption) *Checker {
	c := &Checker{
		version:      version,
		startTime:    time.Now(),
		checkTimeout: DefaultCheckTimeout,
		checks:       make(map[string]check),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RegisterCheck registers a critical dependency check. A failing
// critical check makes readiness unhealthy.
func (c *Checker) RegisterCheck(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check{fn: fn, critical: true}
}

// RegisterNonCriticalCheck registers a dependency check whose failure
// only degrades readiness.
func (c *Checker) RegisterNonCriticalCheck(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check{fn: fn, critical: false}
}

// UnregisterCheck removes a registered check.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// CheckNames returns the registered check names in sorted order.
func (c *Checker) CheckNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Health returns the liveness status. Liveness never runs dependency
// checks.
func (c *Checker) Health() HealthResponse {
	return HealthResponse{
		Status:    StatusHealthy,
		Version:   c.version,
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Readiness runs every registered check and aggregates the results.
func (c *Checker) Readiness(ctx context.Context) ReadinessResponse {
	c.mu.RLock()
	snapshot := make(map[string]check, len(c.checks))
	for name, chk := range c.checks {
		snapshot[name] = chk
	}
	timeout := c.checkTimeout
	c.mu.RUnlock()

	response := ReadinessResponse{
		Status:    StatusHealthy,
		Checks:    make(map[string]CheckResult, len(snapshot)),
		Timestamp: time.Now(),
	}

	for name, chk := range snapshot {
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		err := chk.fn(checkCtx)
		cancel()

		if err == nil {
			response.Checks[name] = CheckResult{Status: StatusHealthy}
			continue
		}

		if chk.critical {
			response.Checks[name] = CheckResult{Status: StatusUnhealthy, Message: err.Error()}
			response.Status = StatusUnhealthy
		} else {
			response.Checks[name] = CheckResult{Status: StatusDegraded, Message: err.Error()}
			if response.Status != StatusUnhealthy {
				response.Status = StatusDegraded
			}
		}
	}

	return response
}

// HealthHandler returns the liveness endpoint handler.
func (c *Checker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, c.Health())
	}
}

// ReadinessHandler returns the readiness endpoint handler.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.Readiness(r.Context())

		statusCode := http.StatusOK
		if response.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		writeJSON(w, statusCode, response)
	}
}

// LivenessHandler returns a static ping handler.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
