package swap

import (
	"errors"
	"fmt"
)

// ErrMissingWalletKey is returned when a swap is initiated without a
// wallet key.
var ErrMissingWalletKey = errors.New("privateKey is required")

// APIError is a non-success response from the relayer. The status and
// body are preserved so callers can relay them unchanged.
type APIError struct {
	// Operation is the relayer operation that failed.
	Operation string

	// StatusCode is the relayer's HTTP status.
	StatusCode int

	// Body is the raw relayer response body.
	Body []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("relayer %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("relayer %s failed with status %d", e.Operation, e.StatusCode)
}
