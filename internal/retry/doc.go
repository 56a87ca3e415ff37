// Package retry provides exponential backoff retry for rate-limited
// upstream calls.
//
// The executor retries only failures classified as rate limiting;
// every other failure propagates immediately. Classification is typed:
// upstream adapters wrap throttling responses in *RateLimitError, and
// IsRateLimited falls back to matching well-known message markers for
// errors that arrive from third-party code unwrapped.
//
// Delays double on every retry, starting at Config.InitialBackoff and
// capped at Config.MaxBackoff. MaxRetries of zero performs exactly one
// attempt.
//
// Execute an operation with retry:
//
//	cfg := retry.DefaultConfig()
//	quote, err := retry.DoValue(ctx, cfg, func(ctx context.Context) (*Quote, error) {
//	    return client.GetQuote(ctx, params)
//	}, &retry.Options{Operation: "get_quote"})
package retry
