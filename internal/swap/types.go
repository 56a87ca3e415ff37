package swap

import "encoding/json"

// OrderStatus is the relayer-reported lifecycle status of an order.
type OrderStatus string

// Order lifecycle statuses.
const (
	StatusPending         OrderStatus = "pending"
	StatusPartiallyFilled OrderStatus = "partially-filled"
	StatusExecuted        OrderStatus = "executed"
	StatusExpired         OrderStatus = "expired"
	StatusRefunded        OrderStatus = "refunded"
	StatusCancelled       OrderStatus = "cancelled"
)

// IsTerminal reports whether the status ends the order lifecycle.
// Monitoring stops once a terminal status is observed.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusExecuted, StatusExpired, StatusRefunded:
		return true
	}
	return false
}

// QuoteRequest holds the parameters for a cross-chain quote.
type QuoteRequest struct {
	// SrcChainID is the source network ID.
	SrcChainID uint64

	// DstChainID is the destination network ID.
	DstChainID uint64

	// SrcTokenAddress is the token being sold on the source chain.
	SrcTokenAddress string

	// DstTokenAddress is the token being bought on the destination chain.
	DstTokenAddress string

	// Amount is the sell amount in the token's smallest unit.
	Amount string

	// WalletKey authenticates the maker wallet with the relayer.
	WalletKey string

	// RPCURL is the source-chain RPC endpoint.
	RPCURL string
}

// Quote is the relayer's priced response to a quote request.
type Quote struct {
	// QuoteID identifies the quote for subsequent order creation.
	QuoteID string `json:"quoteId"`

	// SrcTokenAmount echoes the sell amount.
	SrcTokenAmount string `json:"srcTokenAmount"`

	// DstTokenAmount is the quoted buy amount.
	DstTokenAmount string `json:"dstTokenAmount"`

	// RecommendedPreset names the preset the relayer suggests.
	RecommendedPreset string `json:"recommendedPreset"`

	// SecretCount is how many fill secrets the recommended preset
	// expects. Zero means a single fill.
	SecretCount int `json:"secretsCount"`

	// Raw is the untouched relayer payload.
	Raw json.RawMessage `json:"-"`
}

// Order is a created, not yet submitted, swap order.
type Order struct {
	// OrderHash uniquely identifies the order.
	OrderHash string `json:"orderHash"`

	// QuoteID links the order back to its quote.
	QuoteID string `json:"quoteId"`

	// SecretHashes are the published hashlock values, one per fill.
	SecretHashes []string `json:"secretHashes"`

	// Raw is the untouched relayer payload, replayed on submission.
	Raw json.RawMessage `json:"-"`
}

// StatusResponse is the relayer's answer to an order status query.
type StatusResponse struct {
	// OrderHash identifies the order.
	OrderHash string `json:"orderHash"`

	// Status is the current lifecycle status.
	Status OrderStatus `json:"status"`

	// Raw is the untouched relayer payload, relayed to callers.
	Raw json.RawMessage `json:"-"`
}

// ReadyFill identifies one fill whose secret the relayer is ready to
// accept.
type ReadyFill struct {
	// Idx is the index into the order's secret list.
	Idx int `json:"idx"`
}
