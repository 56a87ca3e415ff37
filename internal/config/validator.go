package config

import (
	"fmt"
	"net/url"
)

// ValidateConfig validates a resolved configuration. It returns the
// first problem found.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validatePort("server.port", cfg.Server.Port); err != nil {
		return err
	}
	if err := validatePort("server.adminPort", cfg.Server.AdminPort); err != nil {
		return err
	}
	if cfg.Server.Port == cfg.Server.AdminPort {
		return fmt.Errorf("server.port and server.adminPort must differ (both %d)", cfg.Server.Port)
	}

	if err := validateURL("inference.baseUrl", cfg.Inference.BaseURL); err != nil {
		return err
	}
	if err := validateURL("swap.relayerUrl", cfg.Swap.RelayerURL); err != nil {
		return err
	}

	if cfg.Tunables.Retry.MaxRetries < 0 {
		return fmt.Errorf("tunables.retry.maxRetries must not be negative, got %d",
			cfg.Tunables.Retry.MaxRetries)
	}
	if cfg.Tunables.Retry.InitialBackoff < 0 {
		return fmt.Errorf("tunables.retry.initialBackoff must not be negative")
	}
	if cfg.Tunables.Monitor.MaxAttempts <= 0 {
		return fmt.Errorf("tunables.monitor.maxAttempts must be positive, got %d",
			cfg.Tunables.Monitor.MaxAttempts)
	}
	if cfg.Tunables.Monitor.Interval <= 0 {
		return fmt.Errorf("tunables.monitor.interval must be positive")
	}

	if cfg.Tunables.RateLimit.Enabled {
		if cfg.Tunables.RateLimit.RPS <= 0 {
			return fmt.Errorf("tunables.rateLimit.rps must be positive when rate limiting is enabled")
		}
		if cfg.Tunables.RateLimit.Burst <= 0 {
			return fmt.Errorf("tunables.rateLimit.burst must be positive when rate limiting is enabled")
		}
	}

	if cfg.CircuitBreaker.Enabled && cfg.CircuitBreaker.Threshold <= 0 {
		return fmt.Errorf("circuitBreaker.threshold must be positive when the circuit breaker is enabled")
	}

	if rate := cfg.Observability.Tracing.SamplingRate; rate < 0 || rate > 1 {
		return fmt.Errorf("observability.tracing.samplingRate must be in [0, 1], got %g", rate)
	}

	return nil
}

// validatePort checks that a port number is usable.
func validatePort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be in (0, 65535], got %d", name, port)
	}
	return nil
}

// validateURL checks that a URL parses and has a scheme and host.
func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
	}
	return nil
}
