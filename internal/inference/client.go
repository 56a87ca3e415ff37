package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

const (
	// DefaultBaseURL is the default inference server address.
	DefaultBaseURL = "http://127.0.0.1:11434"

	// DefaultTimeout is the default request timeout. Generation can be
	// slow on large models, so this is deliberately generous.
	DefaultTimeout = 120 * time.Second

	generatePath = "/api/generate"
	modelsPath   = "/api/tags"
)

// Response carries an upstream response verbatim. StatusCode is the
// upstream status, Body the raw upstream body. Callers relay both
// unchanged.
type Response struct {
	// StatusCode is the upstream HTTP status code.
	StatusCode int

	// ContentType is the upstream Content-Type header.
	ContentType string

	// Body is the raw upstream response body.
	Body []byte
}

// OK reports whether the upstream returned a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client is a client for the inference server.
type Client interface {
	// Generate forwards a generation request payload verbatim and
	// returns the upstream response.
	Generate(ctx context.Context, payload []byte) (*Response, error)

	// ListModels returns the upstream model catalog.
	ListModels(ctx context.Context) (*Response, error)
}

// client implements Client.
type client struct {
	baseURL    string
	httpClient *http.Client
	logger     observability.Logger
}

// ClientOption is a functional option for the inference client.
type ClientOption func(*client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) ClientOption {
	return func(c *client) {
		c.logger = logger
	}
}

// NewClient creates a new inference client. An empty baseURL falls
// back to DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Generate forwards a generation request payload verbatim.
func (c *client) Generate(ctx context.Context, payload []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, generatePath, payload)
}

// ListModels returns the upstream model catalog.
func (c *client) ListModels(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, modelsPath, nil)
}

// do performs a single request against the inference server.
func (c *client) do(ctx context.Context, method, path string, payload []byte) (*Response, error) {
	start := time.Now()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordUpstreamRequest("inference", path, 0, time.Since(start))
		c.logger.Error("inference request failed",
			observability.String("path", path),
			observability.Error(err),
		)
		return nil, fmt.Errorf("inference server unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.RecordUpstreamRequest("inference", path, 0, time.Since(start))
		return nil, fmt.Errorf("failed to read inference response: %w", err)
	}

	observability.RecordUpstreamRequest("inference", path, resp.StatusCode, time.Since(start))
	c.logger.Debug("inference request completed",
		observability.String("path", path),
		observability.Int("status", resp.StatusCode),
		observability.Duration("duration", time.Since(start)),
	)

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}
