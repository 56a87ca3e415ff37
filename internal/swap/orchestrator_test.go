package swap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marshal-AM/sillyboy/internal/retry"
)

func testDefaults() Defaults {
	return Defaults{
		Amount:   "100000",
		SrcChain: "ARBITRUM",
		DstChain: "BASE",
		SrcToken: "0xsrc",
		DstToken: "0xdst",
		RPCURL:   "https://rpc.example",
	}
}

func testRetryConfig() *retry.Config {
	return &retry.Config{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Second}
}

func TestInitiateSwap_HappyPath(t *testing.T) {
	t.Parallel()

	relayer := &fakeRelayer{}
	relayer.statusFn = func(ctx context.Context, orderHash string) (*StatusResponse, error) {
		return &StatusResponse{OrderHash: orderHash, Status: StatusExecuted}, nil
	}

	o := NewOrchestrator(relayer, testRetryConfig(), testMonitorConfig(2), testDefaults())

	result, err := o.InitiateSwap(context.Background(), SwapParams{WalletKey: "0xkey"})
	require.NoError(t, err)

	assert.Equal(t, "0xorder", result.OrderHash)
	assert.Equal(t, uint64(42161), result.SrcChainID)
	assert.Equal(t, uint64(8453), result.DstChainID)
	assert.Equal(t, 1, result.SecretCount)
	assert.Equal(t, "ARBITRUM", result.Params.SrcChain)
	assert.Equal(t, "100000", result.Params.Amount)

	quote, create, submit, _, _, _ := relayer.counts()
	assert.Equal(t, 1, quote)
	assert.Equal(t, 1, create)
	assert.Equal(t, 1, submit)

	require.NotNil(t, result.Monitor)
	waitForMonitor(t, result.Monitor)
	assert.Equal(t, OutcomeTerminal, result.Monitor.Outcome())
}

func TestInitiateSwap_MissingWalletKey(t *testing.T) {
	t.Parallel()

	o := NewOrchestrator(&fakeRelayer{}, testRetryConfig(), testMonitorConfig(1), testDefaults())

	_, err := o.InitiateSwap(context.Background(), SwapParams{})
	require.ErrorIs(t, err, ErrMissingWalletKey)
}

func TestInitiateSwap_InvalidChains(t *testing.T) {
	t.Parallel()

	o := NewOrchestrator(&fakeRelayer{}, testRetryConfig(), testMonitorConfig(1), testDefaults())

	_, err := o.InitiateSwap(context.Background(), SwapParams{WalletKey: "0xkey", SrcChain: "MARS"})
	var chainErr *InvalidChainError
	require.ErrorAs(t, err, &chainErr)
	assert.Equal(t, "source", chainErr.Side)
	assert.Equal(t, "MARS", chainErr.Name)

	_, err = o.InitiateSwap(context.Background(), SwapParams{WalletKey: "0xkey", DstChain: "PLUTO"})
	require.ErrorAs(t, err, &chainErr)
	assert.Equal(t, "destination", chainErr.Side)
}

func TestInitiateSwap_RetriesRateLimitedQuote(t *testing.T) {
	t.Parallel()

	relayer := &fakeRelayer{}
	var attempts int
	relayer.quoteFn = func(ctx context.Context, req QuoteRequest) (*Quote, error) {
		attempts++
		if attempts <= 2 {
			return nil, retry.RateLimited("get_quote", errors.New("throttled"))
		}
		return &Quote{QuoteID: "q1", SecretCount: 2}, nil
	}
	relayer.statusFn = func(ctx context.Context, orderHash string) (*StatusResponse, error) {
		return &StatusResponse{OrderHash: orderHash, Status: StatusExecuted}, nil
	}

	o := NewOrchestrator(relayer, testRetryConfig(), testMonitorConfig(1), testDefaults())

	result, err := o.InitiateSwap(context.Background(), SwapParams{WalletKey: "0xkey"})
	require.NoError(t, err)

	quote, _, _, _, _, _ := relayer.counts()
	assert.Equal(t, 3, quote, "two rate-limited attempts then success")
	assert.Equal(t, 2, result.SecretCount)
	waitForMonitor(t, result.Monitor)
}

func TestInitiateSwap_NonRetryableQuoteFailsImmediately(t *testing.T) {
	t.Parallel()

	relayer := &fakeRelayer{}
	relayer.quoteFn = func(ctx context.Context, req QuoteRequest) (*Quote, error) {
		return nil, &APIError{Operation: "get_quote", StatusCode: 400, Body: []byte("bad amount")}
	}

	o := NewOrchestrator(relayer, testRetryConfig(), testMonitorConfig(1), testDefaults())

	_, err := o.InitiateSwap(context.Background(), SwapParams{WalletKey: "0xkey"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)

	quote, create, _, _, _, _ := relayer.counts()
	assert.Equal(t, 1, quote)
	assert.Equal(t, 0, create)
}

func TestInitiateSwap_SubmitFailureAbortsBeforeMonitoring(t *testing.T) {
	t.Parallel()

	relayer := &fakeRelayer{}
	relayer.submitFn = func(ctx context.Context, order *Order, srcChainID uint64) error {
		return &APIError{Operation: "submit_order", StatusCode: 500}
	}

	o := NewOrchestrator(relayer, testRetryConfig(), testMonitorConfig(1), testDefaults())

	_, err := o.InitiateSwap(context.Background(), SwapParams{WalletKey: "0xkey"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order submission failed")

	_, _, _, fills, _, _ := relayer.counts()
	assert.Equal(t, 0, fills, "monitor must not start for a failed submission")
}

func TestInitiateSwap_CallerParamsOverrideDefaults(t *testing.T) {
	t.Parallel()

	relayer := &fakeRelayer{}
	var gotReq QuoteRequest
	relayer.quoteFn = func(ctx context.Context, req QuoteRequest) (*Quote, error) {
		gotReq = req
		return &Quote{QuoteID: "q1", SecretCount: 1}, nil
	}
	relayer.statusFn = func(ctx context.Context, orderHash string) (*StatusResponse, error) {
		return &StatusResponse{OrderHash: orderHash, Status: StatusExecuted}, nil
	}

	o := NewOrchestrator(relayer, testRetryConfig(), testMonitorConfig(1), testDefaults())

	result, err := o.InitiateSwap(context.Background(), SwapParams{
		WalletKey: "0xkey",
		Amount:    "5",
		SrcChain:  "ethereum",
		DstChain:  "polygon",
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), gotReq.SrcChainID)
	assert.Equal(t, uint64(137), gotReq.DstChainID)
	assert.Equal(t, "5", gotReq.Amount)
	assert.Equal(t, "0xsrc", gotReq.SrcTokenAddress, "omitted token falls back to default")
	waitForMonitor(t, result.Monitor)
}

func TestOrderStatus(t *testing.T) {
	t.Parallel()

	relayer := &fakeRelayer{}
	relayer.statusFn = func(ctx context.Context, orderHash string) (*StatusResponse, error) {
		return &StatusResponse{OrderHash: orderHash, Status: StatusPartiallyFilled}, nil
	}

	o := NewOrchestrator(relayer, testRetryConfig(), testMonitorConfig(1), testDefaults())

	status, err := o.OrderStatus(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", status.OrderHash)
	assert.Equal(t, StatusPartiallyFilled, status.Status)
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusExecuted.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusPartiallyFilled.IsTerminal())
	assert.False(t, StatusCancelled.IsTerminal())
}
