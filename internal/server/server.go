package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Marshal-AM/sillyboy/internal/config"
	"github.com/Marshal-AM/sillyboy/internal/inference"
	"github.com/Marshal-AM/sillyboy/internal/observability"
	"github.com/Marshal-AM/sillyboy/internal/server/middleware"
	"github.com/Marshal-AM/sillyboy/internal/swap"
)

// ginModeOnce ensures gin.SetMode is only called once to avoid race
// conditions.
var ginModeOnce sync.Once

// Server is the public API HTTP server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	logger     observability.Logger

	inference    inference.Client
	orchestrator *swap.Orchestrator
	rateLimiter  *middleware.RateLimiter

	mu      sync.RWMutex
	running bool
}

// Option is a functional option for the server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates the API server and registers its routes and middleware.
func New(cfg *config.Config, inferenceClient inference.Client, orchestrator *swap.Orchestrator, opts ...Option) *Server {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	s := &Server{
		engine:       gin.New(),
		config:       cfg,
		logger:       observability.NopLogger(),
		inference:    inferenceClient,
		orchestrator: orchestrator,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.registerRoutes()

	return s
}

// setupMiddleware installs the middleware chain. Order matters:
// recovery outermost, then request identity and logging, then traffic
// controls.
func (s *Server) setupMiddleware() {
	s.engine.Use(middleware.Recovery(s.logger))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logging(s.logger))
	if s.config.Observability.Tracing.Enabled {
		s.engine.Use(middleware.Tracing(s.config.Observability.Tracing.ServiceName))
	}
	s.engine.Use(middleware.Metrics())

	if s.config.Tunables.RateLimit.Enabled {
		s.rateLimiter = middleware.NewRateLimiter(
			s.config.Tunables.RateLimit.RPS,
			s.config.Tunables.RateLimit.Burst,
			s.config.Tunables.RateLimit.PerClient,
			middleware.WithRateLimiterLogger(s.logger),
		)
		s.engine.Use(middleware.RateLimit(s.rateLimiter))
	}

	if s.config.CircuitBreaker.Enabled {
		cb := middleware.NewCircuitBreaker(
			"upstream",
			s.config.CircuitBreaker.Threshold,
			s.config.CircuitBreaker.Timeout.Duration(),
			middleware.WithCircuitBreakerLogger(s.logger),
		)
		s.engine.Use(middleware.CircuitBreakerGuard(cb))
	}
}

// registerRoutes wires the API endpoints.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	api.POST("/generate", s.handleGenerate)
	api.POST("/character/generate", s.handleCharacterGenerate)
	api.GET("/models", s.handleListModels)

	api.POST("/swap", s.handleInitiateSwap)
	api.GET("/chains", s.handleListChains)
	api.GET("/orders/:hash/status", s.handleOrderStatus)
}

// ApplyTunables applies the hot-reloadable traffic settings. Rate
// limit toggling requires a restart; only the rate and burst values of
// an already enabled limiter change live.
func (s *Server) ApplyTunables(t config.Tunables) {
	if s.rateLimiter != nil {
		s.rateLimiter.UpdateLimits(t.RateLimit.RPS, t.RateLimit.Burst)
	}
}

// Engine returns the underlying gin engine, used by tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start runs the server. It blocks until the listener fails or the
// server is stopped.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.config.Server.ReadTimeout.Duration(),
		WriteTimeout: s.config.Server.WriteTimeout.Duration(),
		IdleTimeout:  s.config.Server.IdleTimeout.Duration(),
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting API server", observability.String("address", addr))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info("stopping API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	return nil
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
