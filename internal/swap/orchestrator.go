package swap

import (
	"context"
	"fmt"
	"sync"

	"github.com/Marshal-AM/sillyboy/internal/observability"
	"github.com/Marshal-AM/sillyboy/internal/retry"
)

// Defaults are the per-request fallbacks applied when a swap request
// omits a parameter. WalletKey has no default and must come from the
// caller.
type Defaults struct {
	// Amount is the default sell amount in the token's smallest unit.
	Amount string

	// SrcChain and DstChain are default chain names.
	SrcChain string
	DstChain string

	// SrcToken and DstToken are default token addresses.
	SrcToken string
	DstToken string

	// RPCURL is the default source-chain RPC endpoint.
	RPCURL string
}

// SwapParams are the caller-supplied parameters for one swap.
type SwapParams struct {
	// WalletKey authenticates the maker wallet. Required.
	WalletKey string

	// Amount is the sell amount in the token's smallest unit.
	Amount string

	// SrcChain and DstChain are chain names resolved against the
	// chain table.
	SrcChain string
	DstChain string

	// SrcToken and DstToken are token addresses.
	SrcToken string
	DstToken string

	// RPCURL is the source-chain RPC endpoint.
	RPCURL string
}

// SwapResult reports a successfully initiated swap. The monitor
// handle supervises the background fill-monitoring session.
type SwapResult struct {
	// OrderHash identifies the submitted order.
	OrderHash string

	// Params echoes the effective parameters after defaults.
	Params SwapParams

	// SrcChainID and DstChainID are the resolved network IDs.
	SrcChainID uint64
	DstChainID uint64

	// SecretCount is how many fill secrets were generated.
	SecretCount int

	// Monitor supervises the background monitoring session.
	Monitor *MonitorHandle
}

// Orchestrator runs the swap order lifecycle: quote, secret
// generation, order creation, submission, and background monitoring.
type Orchestrator struct {
	relayer    Relayer
	monitor    *Monitor
	defaults   Defaults
	logger     observability.Logger
	monitorCtx context.Context

	mu       sync.RWMutex
	retryCfg *retry.Config
}

// OrchestratorOption is a functional option for the orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger sets the logger.
func WithOrchestratorLogger(logger observability.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMonitorContext sets the context monitoring sessions run under.
// It defaults to context.Background so sessions outlive the request
// that started them; passing a process-lifetime context lets shutdown
// cancel in-flight sessions.
func WithMonitorContext(ctx context.Context) OrchestratorOption {
	return func(o *Orchestrator) {
		o.monitorCtx = ctx
	}
}

// NewOrchestrator creates an orchestrator. Nil retry and monitor
// configs use their package defaults.
func NewOrchestrator(relayer Relayer, retryCfg *retry.Config, monitorCfg *MonitorConfig, defaults Defaults, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		relayer:    relayer,
		retryCfg:   retryCfg,
		defaults:   defaults,
		logger:     observability.NopLogger(),
		monitorCtx: context.Background(),
	}

	for _, opt := range opts {
		opt(o)
	}

	o.monitor = NewMonitor(relayer, monitorCfg, o.logger)

	return o
}

// retryConfig returns the current retry configuration.
func (o *Orchestrator) retryConfig() *retry.Config {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.retryCfg
}

// UpdateTunables applies new retry and monitor settings. In-flight
// operations keep the settings they started with; new requests and
// monitoring sessions pick up the change.
func (o *Orchestrator) UpdateTunables(retryCfg *retry.Config, monitorCfg *MonitorConfig) {
	o.mu.Lock()
	o.retryCfg = retryCfg
	o.mu.Unlock()

	o.monitor.UpdateConfig(monitorCfg)
}

// applyDefaults fills omitted parameters from the configured defaults.
func (o *Orchestrator) applyDefaults(params SwapParams) SwapParams {
	if params.Amount == "" {
		params.Amount = o.defaults.Amount
	}
	if params.SrcChain == "" {
		params.SrcChain = o.defaults.SrcChain
	}
	if params.DstChain == "" {
		params.DstChain = o.defaults.DstChain
	}
	if params.SrcToken == "" {
		params.SrcToken = o.defaults.SrcToken
	}
	if params.DstToken == "" {
		params.DstToken = o.defaults.DstToken
	}
	if params.RPCURL == "" {
		params.RPCURL = o.defaults.RPCURL
	}
	return params
}

// InitiateSwap runs the order lifecycle through submission and spawns
// the background fill monitor. Rate-limited relayer calls are retried
// with exponential backoff; any other failure aborts the whole
// initiation.
func (o *Orchestrator) InitiateSwap(ctx context.Context, params SwapParams) (*SwapResult, error) {
	if params.WalletKey == "" {
		return nil, ErrMissingWalletKey
	}
	params = o.applyDefaults(params)

	srcChainID, ok := ChainID(params.SrcChain)
	if !ok {
		return nil, &InvalidChainError{Side: "source", Name: params.SrcChain}
	}
	dstChainID, ok := ChainID(params.DstChain)
	if !ok {
		return nil, &InvalidChainError{Side: "destination", Name: params.DstChain}
	}

	retryCfg := o.retryConfig()

	quoteReq := QuoteRequest{
		SrcChainID:      srcChainID,
		DstChainID:      dstChainID,
		SrcTokenAddress: params.SrcToken,
		DstTokenAddress: params.DstToken,
		Amount:          params.Amount,
		WalletKey:       params.WalletKey,
		RPCURL:          params.RPCURL,
	}

	quote, err := retry.DoValue(ctx, retryCfg, func(ctx context.Context) (*Quote, error) {
		return o.relayer.GetQuote(ctx, quoteReq)
	}, &retry.Options{Operation: "get_quote", Logger: o.logger})
	if err != nil {
		recordSwapInitiated("quote_failed")
		return nil, fmt.Errorf("quote failed: %w", err)
	}

	secrets, err := GenerateSecrets(quote.SecretCount)
	if err != nil {
		recordSwapInitiated("secrets_failed")
		return nil, err
	}
	secretHashes, err := HashSecrets(secrets)
	if err != nil {
		recordSwapInitiated("secrets_failed")
		return nil, err
	}

	order, err := retry.DoValue(ctx, retryCfg, func(ctx context.Context) (*Order, error) {
		return o.relayer.CreateOrder(ctx, quote, quoteReq, secretHashes)
	}, &retry.Options{Operation: "create_order", Logger: o.logger})
	if err != nil {
		recordSwapInitiated("create_failed")
		return nil, fmt.Errorf("order creation failed: %w", err)
	}

	err = retry.Do(ctx, retryCfg, func(ctx context.Context) error {
		return o.relayer.SubmitOrder(ctx, order, srcChainID)
	}, &retry.Options{Operation: "submit_order", Logger: o.logger})
	if err != nil {
		recordSwapInitiated("submit_failed")
		return nil, fmt.Errorf("order submission failed: %w", err)
	}

	recordSwapInitiated("submitted")
	o.logger.Info("swap order submitted",
		observability.String("order_hash", order.OrderHash),
		observability.String("src_chain", params.SrcChain),
		observability.String("dst_chain", params.DstChain),
		observability.String("amount", params.Amount),
		observability.Int("secrets", len(secrets)),
	)

	// The monitor runs detached from the initiating request.
	handle := o.monitor.Start(o.monitorCtx, order.OrderHash, secrets)

	return &SwapResult{
		OrderHash:   order.OrderHash,
		Params:      params,
		SrcChainID:  srcChainID,
		DstChainID:  dstChainID,
		SecretCount: len(secrets),
		Monitor:     handle,
	}, nil
}

// OrderStatus queries the relayer for an order's current status.
func (o *Orchestrator) OrderStatus(ctx context.Context, orderHash string) (*StatusResponse, error) {
	return retry.DoValue(ctx, o.retryConfig(), func(ctx context.Context) (*StatusResponse, error) {
		return o.relayer.GetStatus(ctx, orderHash)
	}, &retry.Options{Operation: "order_status", Logger: o.logger})
}
