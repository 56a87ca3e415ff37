package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

// CircuitBreaker wraps gobreaker.CircuitBreaker for the upstream-backed
// routes. Responses with 5xx statuses count as failures; once the
// failure ratio trips the breaker, requests are rejected until the
// timeout elapses.
type CircuitBreaker struct {
	cb     *gobreaker.CircuitBreaker
	logger observability.Logger
}

// CircuitBreakerOption is a functional option for the circuit breaker.
type CircuitBreakerOption func(*CircuitBreaker)

// WithCircuitBreakerLogger sets the logger.
func WithCircuitBreakerLogger(logger observability.Logger) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.logger = logger
	}
}

// NewCircuitBreaker creates a circuit breaker. threshold is the
// minimum request count before the failure ratio is evaluated.
func NewCircuitBreaker(name string, threshold int, timeout time.Duration, opts ...CircuitBreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(cb)
	}

	thresholdU32 := uint32(1)
	if threshold > 0 {
		thresholdU32 = uint32(threshold)
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: thresholdU32,
		Interval:    timeout,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= thresholdU32 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			cb.logger.Info("circuit breaker state change",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
		},
	}

	cb.cb = gobreaker.NewCircuitBreaker(settings)

	return cb
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.cb.State()
}

// CircuitBreakerGuard returns a middleware that runs each request
// through the breaker. Open-circuit rejections answer 503.
func CircuitBreakerGuard(cb *CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := cb.cb.Execute(func() (interface{}, error) {
			c.Next()
			if c.Writer.Status() >= 500 {
				return nil, &upstreamFailure{status: c.Writer.Status()}
			}
			return nil, nil
		})

		if err != nil {
			var uf *upstreamFailure
			if !errors.As(err, &uf) {
				// Rejected without running: the breaker is open.
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
			}
		}
	}
}

// upstreamFailure marks a 5xx response as a breaker failure without
// altering the response already written.
type upstreamFailure struct {
	status int
}

func (e *upstreamFailure) Error() string {
	return http.StatusText(e.status)
}
