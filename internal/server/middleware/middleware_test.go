package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

var testModeOnce sync.Once

func newTestEngine() *gin.Engine {
	testModeOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})
	return gin.New()
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	r := newTestEngine()
	r.Use(Recovery(observability.NopLogger()))
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	r := newTestEngine()
	r.Use(RequestID())

	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = observability.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	r := newTestEngine()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "caller-id", rec.Header().Get(RequestIDHeader))
}

func TestRequestIDWithGenerator(t *testing.T) {
	t.Parallel()

	r := newTestEngine()
	r.Use(RequestIDWithGenerator(func() string { return "fixed" }))
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "fixed", rec.Header().Get(RequestIDHeader))
}

func TestRateLimiter_Global(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, false)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("5.6.7.8"), "global limiter shares one bucket")
}

func TestRateLimiter_PerClient(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, true)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "separate clients get separate buckets")
}

func TestRateLimit_Middleware(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, false)
	defer rl.Stop()

	r := newTestEngine()
	r.Use(RateLimit(rl))
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("test", 2, 30*time.Second)

	r := newTestEngine()
	r.Use(CircuitBreakerGuard(cb))
	r.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream down"})
	})

	// Enough 5xx responses to trip the breaker.
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"service temporarily unavailable"}`, rec.Body.String())
}

func TestCircuitBreaker_SuccessesKeepClosed(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("test", 2, 30*time.Second)

	r := newTestEngine()
	r.Use(CircuitBreakerGuard(cb))
	r.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/bad", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client error"})
	})

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// 4xx responses are not breaker failures.
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestLogging_DoesNotAlterResponse(t *testing.T) {
	t.Parallel()

	r := newTestEngine()
	r.Use(Logging(observability.NopLogger()))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestMetrics_DoesNotAlterResponse(t *testing.T) {
	t.Parallel()

	r := newTestEngine()
	r.Use(Metrics())
	r.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unmatched routes still record under a bounded label.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimiter_UpdateLimits(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, true)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	rl.UpdateLimits(100, 100)

	assert.True(t, rl.Allow("5.6.7.8"), "new buckets use the new limits")
	assert.True(t, rl.Allow("5.6.7.8"), "new burst allows more than the old cap")

	// The drained bucket refills at the new rate; 50ms at 100 rps is
	// several tokens, where the old 1 rps would not yield one.
	time.Sleep(50 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"), "existing bucket picks up the new rate")
}

func TestTracing_DoesNotAlterResponse(t *testing.T) {
	t.Parallel()

	r := newTestEngine()
	r.Use(Tracing("test"))
	r.GET("/traced", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/traced", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
