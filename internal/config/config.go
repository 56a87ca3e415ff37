package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names read once at startup.
const (
	// EnvAuthKey is the relayer developer-portal authorization key.
	EnvAuthKey = "DEV_PORTAL_KEY"

	// EnvSourceTag is the source tag attached to relayer orders.
	EnvSourceTag = "SWAP_SOURCE_TAG"

	// EnvPort is the HTTP listening port.
	EnvPort = "PORT"

	// EnvInferenceURL is the inference server base URL.
	EnvInferenceURL = "OLLAMA_URL"
)

// Config holds all configuration for the sillyboy service.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Inference      InferenceConfig      `yaml:"inference"`
	Swap           SwapConfig           `yaml:"swap"`
	Tunables       Tunables             `yaml:"tunables"`
	Observability  ObservabilityConfig  `yaml:"observability"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	AdminPort       int      `yaml:"adminPort"`
	ReadTimeout     Duration `yaml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout"`
	IdleTimeout     Duration `yaml:"idleTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// InferenceConfig holds inference upstream settings.
type InferenceConfig struct {
	BaseURL string   `yaml:"baseUrl"`
	Timeout Duration `yaml:"timeout"`
}

// SwapConfig holds swap relayer settings and per-request defaults.
type SwapConfig struct {
	RelayerURL string   `yaml:"relayerUrl"`
	AuthKey    string   `yaml:"authKey"`
	SourceTag  string   `yaml:"sourceTag"`
	Timeout    Duration `yaml:"timeout"`

	// Per-request defaults applied when the caller omits a field.
	DefaultAmount   string `yaml:"defaultAmount"`
	DefaultSrcChain string `yaml:"defaultSrcChain"`
	DefaultDstChain string `yaml:"defaultDstChain"`
	DefaultSrcToken string `yaml:"defaultSrcToken"`
	DefaultDstToken string `yaml:"defaultDstToken"`
	DefaultRPCURL   string `yaml:"defaultRpcUrl"`
}

// Tunables holds the hot-reloadable runtime settings.
type Tunables struct {
	Retry     RetrySettings     `yaml:"retry"`
	Monitor   MonitorSettings   `yaml:"monitor"`
	RateLimit RateLimitSettings `yaml:"rateLimit"`
}

// RetrySettings configures the rate-limit retry executor.
type RetrySettings struct {
	MaxRetries     int      `yaml:"maxRetries"`
	InitialBackoff Duration `yaml:"initialBackoff"`
	MaxBackoff     Duration `yaml:"maxBackoff"`
}

// MonitorSettings configures the background fill monitor.
type MonitorSettings struct {
	Interval    Duration `yaml:"interval"`
	MaxAttempts int      `yaml:"maxAttempts"`
}

// RateLimitSettings configures inbound request rate limiting.
type RateLimitSettings struct {
	Enabled   bool `yaml:"enabled"`
	RPS       int  `yaml:"rps"`
	Burst     int  `yaml:"burst"`
	PerClient bool `yaml:"perClient"`
}

// CircuitBreakerConfig configures the circuit breaker on proxied routes.
type CircuitBreakerConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Threshold int      `yaml:"threshold"`
	Timeout   Duration `yaml:"timeout"`
}

// ObservabilityConfig holds logging, metrics, and tracing settings.
type ObservabilityConfig struct {
	LogLevel    string        `yaml:"logLevel"`
	LogFormat   string        `yaml:"logFormat"`
	MetricsPath string        `yaml:"metricsPath"`
	Tracing     TracingConfig `yaml:"tracing"`
}

// TracingConfig holds OpenTelemetry tracing settings.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlpEndpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
	ServiceName  string  `yaml:"serviceName"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			AdminPort:       9091,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(5 * time.Minute),
			IdleTimeout:     Duration(120 * time.Second),
			ShutdownTimeout: Duration(30 * time.Second),
		},
		Inference: InferenceConfig{
			BaseURL: "http://127.0.0.1:11434",
			Timeout: Duration(120 * time.Second),
		},
		Swap: SwapConfig{
			RelayerURL: "https://api.1inch.dev/fusion-plus",
			SourceTag:  "sillyboy",
			Timeout:    Duration(30 * time.Second),

			DefaultAmount:   "100000",
			DefaultSrcChain: "ARBITRUM",
			DefaultDstChain: "BASE",
			DefaultSrcToken: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
			DefaultDstToken: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
			DefaultRPCURL:   "https://arb1.arbitrum.io/rpc",
		},
		Tunables: Tunables{
			Retry: RetrySettings{
				MaxRetries:     3,
				InitialBackoff: Duration(1 * time.Second),
				MaxBackoff:     Duration(30 * time.Second),
			},
			Monitor: MonitorSettings{
				Interval:    Duration(5 * time.Second),
				MaxAttempts: 60,
			},
			RateLimit: RateLimitSettings{
				Enabled:   false,
				RPS:       50,
				Burst:     100,
				PerClient: true,
			},
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:   false,
			Threshold: 5,
			Timeout:   Duration(30 * time.Second),
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPath: "/metrics",
			Tracing: TracingConfig{
				Enabled:      false,
				OTLPEndpoint: "localhost:4317",
				SamplingRate: 1.0,
				ServiceName:  "sillyboy",
			},
		},
	}
}

// ApplyEnv overrides settings from process environment variables. It
// is called exactly once at startup; nothing reads the environment
// afterwards.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAuthKey); v != "" {
		c.Swap.AuthKey = v
	}
	if v := os.Getenv(EnvSourceTag); v != "" {
		c.Swap.SourceTag = v
	}
	if v := os.Getenv(EnvInferenceURL); v != "" {
		c.Inference.BaseURL = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}
