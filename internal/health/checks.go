package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// InferenceCheck probes the inference server's model catalog endpoint.
// Any HTTP response counts as reachable; only transport failures fail
// the check.
func InferenceCheck(baseURL string, timeout time.Duration) CheckFunc {
	client := &http.Client{Timeout: timeout}
	url := baseURL + "/api/tags"

	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create probe request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("inference server unreachable: %w", err)
		}
		_ = resp.Body.Close()

		return nil
	}
}

// RelayerConfigCheck verifies the relayer credentials are present.
// Swap endpoints cannot work without an authorization key.
func RelayerConfigCheck(authKey string) CheckFunc {
	return func(ctx context.Context) error {
		if authKey == "" {
			return errors.New("relayer authorization key is not configured")
		}
		return nil
	}
}
