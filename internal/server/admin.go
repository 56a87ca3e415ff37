package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Marshal-AM/sillyboy/internal/health"
	"github.com/Marshal-AM/sillyboy/internal/observability"
)

// AdminServer serves health probes and Prometheus metrics on a port
// separate from the public API.
type AdminServer struct {
	httpServer *http.Server
	logger     observability.Logger
}

// NewAdminServer creates the admin server.
func NewAdminServer(port int, metricsPath string, checker *health.Checker, logger observability.Logger) *AdminServer {
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, observability.MetricsHandler())
	mux.HandleFunc("/health", checker.HealthHandler())
	mux.HandleFunc("/ready", checker.ReadinessHandler())
	mux.HandleFunc("/live", checker.LivenessHandler())

	return &AdminServer{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the admin server. It blocks until the listener fails or
// the server is stopped.
func (a *AdminServer) Start() error {
	a.logger.Info("starting admin server", observability.String("address", a.httpServer.Addr))

	err := a.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("admin server error: %w", err)
	}
	return nil
}

// Stop shuts the admin server down gracefully.
func (a *AdminServer) Stop(ctx context.Context) error {
	return a.httpServer.Shutdown(ctx)
}
