package retry

import (
	"context"
	"time"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

// Default retry configuration constants.
const (
	// DefaultMaxRetries is the default maximum number of retry attempts.
	DefaultMaxRetries = 3

	// DefaultInitialBackoff is the default initial backoff duration.
	DefaultInitialBackoff = 1 * time.Second

	// DefaultMaxBackoff is the default maximum backoff duration.
	DefaultMaxBackoff = 30 * time.Second
)

// Config contains retry configuration parameters.
type Config struct {
	// MaxRetries is the maximum number of retry attempts after the
	// first try. Zero performs exactly one attempt.
	MaxRetries int

	// InitialBackoff is the delay before the first retry. It doubles
	// after each retried failure. Zero is permitted and produces no
	// pause on the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the backoff duration.
	// Default is 30s.
	MaxBackoff time.Duration
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
	}
}

// GetMaxRetries returns the effective max retries.
func (c *Config) GetMaxRetries() int {
	if c == nil {
		return DefaultMaxRetries
	}
	if c.MaxRetries < 0 {
		return 0
	}
	return c.MaxRetries
}

// GetInitialBackoff returns the effective initial backoff. A zero
// value is preserved; only negative values fall back to the default.
func (c *Config) GetInitialBackoff() time.Duration {
	if c == nil || c.InitialBackoff < 0 {
		return DefaultInitialBackoff
	}
	return c.InitialBackoff
}

// GetMaxBackoff returns the effective max backoff.
func (c *Config) GetMaxBackoff() time.Duration {
	if c == nil || c.MaxBackoff <= 0 {
		return DefaultMaxBackoff
	}
	return c.MaxBackoff
}

// ShouldRetryFunc determines if an error should trigger a retry.
type ShouldRetryFunc func(error) bool

// OnRetryFunc is called before each retry attempt sleeps.
type OnRetryFunc func(attempt int, err error, backoff time.Duration)

// Options contains optional retry behavior configuration.
type Options struct {
	// Operation names the wrapped upstream call for metrics and logs.
	Operation string

	// ShouldRetry determines if an error should trigger a retry.
	// If nil, IsRateLimited is used.
	ShouldRetry ShouldRetryFunc

	// OnRetry is called before each retry attempt.
	OnRetry OnRetryFunc

	// Logger logs retry attempts. If nil, attempts are not logged.
	Logger observability.Logger
}

// Do executes fn with retry on rate-limited failures.
func Do(ctx context.Context, cfg *Config, fn func(context.Context) error, opts *Options) error {
	_, err := DoValue(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts)
	return err
}

// DoValue executes fn with retry on rate-limited failures and returns
// its result.
//
// Failures not classified as retryable propagate immediately. Retryable
// failures sleep for the current backoff, double it (capped at
// MaxBackoff), and try again, up to MaxRetries retries; the last error
// is then returned as-is.
func DoValue[T any](
	ctx context.Context,
	cfg *Config,
	fn func(context.Context) (T, error),
	opts *Options,
) (T, error) {
	var zero T

	maxRetries := cfg.GetMaxRetries()
	maxBackoff := cfg.GetMaxBackoff()
	backoff := cfg.GetInitialBackoff()

	operation := "unnamed"
	shouldRetry := ShouldRetryFunc(IsRateLimited)
	if opts != nil {
		if opts.Operation != "" {
			operation = opts.Operation
		}
		if opts.ShouldRetry != nil {
			shouldRetry = opts.ShouldRetry
		}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				recordRecovered(operation)
			}
			return result, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			recordAborted(operation)
			return zero, err
		}

		if attempt == maxRetries {
			break
		}

		recordAttempt(operation, attempt+1)

		if opts != nil && opts.OnRetry != nil {
			opts.OnRetry(attempt+1, err, backoff)
		}
		if opts != nil && opts.Logger != nil {
			opts.Logger.Warn("rate limited, retrying",
				observability.String("operation", operation),
				observability.Int("attempt", attempt+1),
				observability.Int("max_retries", maxRetries),
				observability.Duration("backoff", backoff),
				observability.Error(err),
			)
		}

		if err := sleep(ctx, backoff); err != nil {
			return zero, err
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	recordExhausted(operation)
	return zero, lastErr
}

// sleep waits for d or until the context is done. A non-positive d
// returns immediately.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
