package retry

import (
	"errors"
	"fmt"
	"strings"
)

// RateLimitError marks a failure as transient rate limiting. Upstream
// adapters wrap throttling responses in this type so that retry
// decisions do not depend on message text.
type RateLimitError struct {
	// Operation is the upstream operation that was throttled.
	Operation string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("rate limited [%s]: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("rate limited: %v", e.Cause)
}

// Unwrap returns the underlying error.
func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// RateLimited wraps err as a rate-limit failure. A nil err returns nil.
func RateLimited(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &RateLimitError{Operation: operation, Cause: err}
}

// rateLimitMarkers are message fragments recognized as rate limiting
// for errors that arrive from third-party code without the typed
// wrapper. Textual matching is a fallback only.
var rateLimitMarkers = []string{
	"rate limit",
	"too many requests",
	"429",
}

// IsRateLimited reports whether err is classified as rate limiting.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
