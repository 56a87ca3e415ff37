package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

// DefaultClientTTL is how long an idle per-client limiter entry is
// kept before cleanup.
const DefaultClientTTL = 10 * time.Minute

// clientEntry holds a rate limiter and its last access time for
// TTL-based cleanup.
type clientEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter is a token-bucket limiter, optionally keyed per client
// IP.
type RateLimiter struct {
	limiter   *rate.Limiter
	perClient bool
	rps       int
	burst     int
	logger    observability.Logger
	clientTTL time.Duration

	mu      sync.Mutex
	clients map[string]*clientEntry
	stopCh  chan struct{}
	stopped bool
}

// RateLimiterOption is a functional option for the rate limiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterLogger sets the logger.
func WithRateLimiterLogger(logger observability.Logger) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.logger = logger
	}
}

// WithClientTTL sets how long idle per-client entries are kept.
func WithClientTTL(ttl time.Duration) RateLimiterOption {
	return func(rl *RateLimiter) {
		if ttl > 0 {
			rl.clientTTL = ttl
		}
	}
}

// NewRateLimiter creates a rate limiter. With perClient set, each
// client IP gets its own token bucket.
func NewRateLimiter(rps, burst int, perClient bool, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		perClient: perClient,
		rps:       rps,
		burst:     burst,
		logger:    observability.NopLogger(),
		clientTTL: DefaultClientTTL,
		clients:   make(map[string]*clientEntry),
		stopCh:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(rl)
	}

	if perClient {
		go rl.cleanupLoop()
	}

	return rl
}

// Allow reports whether a request from clientIP may proceed.
func (rl *RateLimiter) Allow(clientIP string) bool {
	if !rl.perClient {
		return rl.limiter.Allow()
	}

	rl.mu.Lock()
	entry, ok := rl.clients[clientIP]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(rate.Limit(rl.rps), rl.burst)}
		rl.clients[clientIP] = entry
	}
	entry.lastAccess = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// UpdateLimits applies new rate and burst values to the shared bucket,
// all existing per-client buckets, and buckets created afterwards.
func (rl *RateLimiter) UpdateLimits(rps, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.rps = rps
	rl.burst = burst
	rl.limiter.SetLimit(rate.Limit(rps))
	rl.limiter.SetBurst(burst)
	for _, entry := range rl.clients {
		entry.limiter.SetLimit(rate.Limit(rps))
		entry.limiter.SetBurst(burst)
	}
}

// Stop terminates the cleanup loop.
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if !rl.stopped {
		rl.stopped = true
		close(rl.stopCh)
	}
}

// cleanupLoop evicts idle per-client entries.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.clientTTL)
			rl.mu.Lock()
			for ip, entry := range rl.clients {
				if entry.lastAccess.Before(cutoff) {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// RateLimit returns a middleware that rejects requests exceeding the
// limiter with 429.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			rl.logger.Warn("request rate limited",
				observability.String("client_ip", c.ClientIP()),
				observability.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
