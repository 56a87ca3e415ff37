package swap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Marshal-AM/sillyboy/internal/observability"
	"github.com/Marshal-AM/sillyboy/internal/retry"
)

const (
	// DefaultRelayerURL is the default relayer API base address.
	DefaultRelayerURL = "https://api.1inch.dev/fusion-plus"

	// DefaultClientTimeout bounds individual relayer calls.
	DefaultClientTimeout = 30 * time.Second

	quotePath      = "/quoter/v1.0/quote/receive"
	buildPath      = "/quoter/v1.0/quote/build"
	submitPath     = "/relayer/v1.0/submit"
	secretPath     = "/relayer/v1.0/submit/secret"
	readyFillsPath = "/orders/v1.0/order/ready-to-accept-secret-fills/"
	statusPath     = "/orders/v1.0/order/status/"
)

// Relayer is the client surface for the cross-chain relayer API. The
// monitor and orchestrator depend on this interface rather than the
// concrete HTTP client.
type Relayer interface {
	// GetQuote requests a priced quote for a swap.
	GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error)

	// CreateOrder builds an order from a quote and the published
	// secret hashes.
	CreateOrder(ctx context.Context, quote *Quote, req QuoteRequest, secretHashes []string) (*Order, error)

	// SubmitOrder submits a created order to the relayer network.
	SubmitOrder(ctx context.Context, order *Order, srcChainID uint64) error

	// ReadySecretFills lists fills ready to accept their secret.
	ReadySecretFills(ctx context.Context, orderHash string) ([]ReadyFill, error)

	// SubmitSecret discloses one fill secret.
	SubmitSecret(ctx context.Context, orderHash, secret string) error

	// GetStatus queries the order's lifecycle status.
	GetStatus(ctx context.Context, orderHash string) (*StatusResponse, error)
}

// relayerClient implements Relayer over HTTP.
type relayerClient struct {
	baseURL    string
	authKey    string
	sourceTag  string
	httpClient *http.Client
	logger     observability.Logger
}

// RelayerOption is a functional option for the relayer client.
type RelayerOption func(*relayerClient)

// WithRelayerHTTPClient sets the HTTP client.
func WithRelayerHTTPClient(hc *http.Client) RelayerOption {
	return func(c *relayerClient) {
		c.httpClient = hc
	}
}

// WithRelayerLogger sets the logger.
func WithRelayerLogger(logger observability.Logger) RelayerOption {
	return func(c *relayerClient) {
		c.logger = logger
	}
}

// NewRelayer creates a relayer client. authKey is sent as a bearer
// token on every call; sourceTag attributes orders to this service.
func NewRelayer(baseURL, authKey, sourceTag string, timeout time.Duration, opts ...RelayerOption) Relayer {
	if baseURL == "" {
		baseURL = DefaultRelayerURL
	}
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}

	c := &relayerClient{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		authKey:   authKey,
		sourceTag: sourceTag,
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

// GetQuote requests a priced quote for a swap.
func (c *relayerClient) GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	params := url.Values{}
	params.Set("srcChain", strconv.FormatUint(req.SrcChainID, 10))
	params.Set("dstChain", strconv.FormatUint(req.DstChainID, 10))
	params.Set("srcTokenAddress", req.SrcTokenAddress)
	params.Set("dstTokenAddress", req.DstTokenAddress)
	params.Set("amount", req.Amount)
	params.Set("enableEstimate", "true")
	if c.sourceTag != "" {
		params.Set("source", c.sourceTag)
	}

	body, err := c.call(ctx, "get_quote", http.MethodGet, quotePath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var quote Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}
	quote.Raw = body

	return &quote, nil
}

// CreateOrder builds an order from a quote.
func (c *relayerClient) CreateOrder(ctx context.Context, quote *Quote, req QuoteRequest, secretHashes []string) (*Order, error) {
	payload := map[string]interface{}{
		"quoteId":      quote.QuoteID,
		"preset":       quote.RecommendedPreset,
		"walletKey":    req.WalletKey,
		"secretHashes": secretHashes,
	}
	if c.sourceTag != "" {
		payload["source"] = c.sourceTag
	}

	body, err := c.call(ctx, "create_order", http.MethodPost, buildPath, payload)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	order.Raw = body
	order.QuoteID = quote.QuoteID
	order.SecretHashes = secretHashes

	return &order, nil
}

// SubmitOrder submits a created order to the relayer network.
func (c *relayerClient) SubmitOrder(ctx context.Context, order *Order, srcChainID uint64) error {
	payload := map[string]interface{}{
		"order":        json.RawMessage(order.Raw),
		"srcChainId":   srcChainID,
		"quoteId":      order.QuoteID,
		"secretHashes": order.SecretHashes,
	}

	_, err := c.call(ctx, "submit_order", http.MethodPost, submitPath, payload)
	return err
}

// ReadySecretFills lists fills ready to accept their secret.
func (c *relayerClient) ReadySecretFills(ctx context.Context, orderHash string) ([]ReadyFill, error) {
	body, err := c.call(ctx, "ready_fills", http.MethodGet, readyFillsPath+url.PathEscape(orderHash), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Fills []ReadyFill `json:"fills"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode ready fills: %w", err)
	}

	return resp.Fills, nil
}

// SubmitSecret discloses one fill secret.
func (c *relayerClient) SubmitSecret(ctx context.Context, orderHash, secret string) error {
	payload := map[string]interface{}{
		"orderHash": orderHash,
		"secret":    secret,
	}

	_, err := c.call(ctx, "submit_secret", http.MethodPost, secretPath, payload)
	return err
}

// GetStatus queries the order's lifecycle status.
func (c *relayerClient) GetStatus(ctx context.Context, orderHash string) (*StatusResponse, error) {
	body, err := c.call(ctx, "order_status", http.MethodGet, statusPath+url.PathEscape(orderHash), nil)
	if err != nil {
		return nil, err
	}

	var status StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode order status: %w", err)
	}
	status.Raw = body
	if status.OrderHash == "" {
		status.OrderHash = orderHash
	}

	return &status, nil
}

// call performs one relayer request. A 429 response is wrapped as a
// rate-limit error so the retry executor backs off; every other
// non-2xx status is a permanent APIError carrying the relayer's body.
func (c *relayerClient) call(ctx context.Context, operation, method, path string, payload interface{}) ([]byte, error) {
	start := time.Now()

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	if c.authKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.authKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordUpstreamRequest("relayer", operation, 0, time.Since(start))
		return nil, fmt.Errorf("relayer %s request failed: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.RecordUpstreamRequest("relayer", operation, 0, time.Since(start))
		return nil, fmt.Errorf("failed to read relayer %s response: %w", operation, err)
	}

	observability.RecordUpstreamRequest("relayer", operation, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("relayer rate limited",
			observability.String("operation", operation),
			observability.Int("status", resp.StatusCode),
		)
		return nil, retry.RateLimited(operation, &APIError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	c.logger.Debug("relayer request completed",
		observability.String("operation", operation),
		observability.Int("status", resp.StatusCode),
		observability.Duration("duration", time.Since(start)),
	)

	return respBody, nil
}
