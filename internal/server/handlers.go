package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Marshal-AM/sillyboy/internal/inference"
	"github.com/Marshal-AM/sillyboy/internal/observability"
	"github.com/Marshal-AM/sillyboy/internal/swap"
)

// errorResponse is the JSON error payload shape.
type errorResponse struct {
	Error string `json:"error"`
}

// handleGenerate forwards the request body verbatim to the inference
// server and relays its response unchanged.
func (s *Server) handleGenerate(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}
	if len(payload) == 0 || !json.Valid(payload) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "request body must be valid JSON"})
		return
	}

	resp, err := s.inference.Generate(c.Request.Context(), payload)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	s.relayUpstream(c, resp)
}

// characterGenerateRequest is the character-aware generation payload.
type characterGenerateRequest struct {
	Model         string                   `json:"model"`
	Prompt        string                   `json:"prompt"`
	CharacterData *inference.CharacterData `json:"character_data"`
	UserName      string                   `json:"user_name"`
	ChatHistory   []inference.ChatMessage  `json:"chat_history"`
	Stream        *bool                    `json:"stream"`
	Options       json.RawMessage          `json:"options"`
}

// validate checks the required fields and returns a descriptive
// message naming everything that is missing.
func (r *characterGenerateRequest) validate() error {
	var missing []string
	if r.Model == "" {
		missing = append(missing, "model")
	}
	if r.Prompt == "" {
		missing = append(missing, "prompt")
	}
	if r.CharacterData == nil {
		missing = append(missing, "character_data")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return r.CharacterData.Validate()
}

// handleCharacterGenerate composes a persona prompt and forwards the
// generation request. Successful responses are augmented with the
// character's name.
func (s *Server) handleCharacterGenerate(c *gin.Context) {
	var req characterGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	prompt := inference.BuildCharacterPrompt(*req.CharacterData, req.UserName, req.ChatHistory, req.Prompt)

	upstream := map[string]interface{}{
		"model":  req.Model,
		"prompt": prompt,
		"stream": req.Stream != nil && *req.Stream,
	}
	if len(req.Options) > 0 {
		upstream["options"] = req.Options
	}

	payload, err := json.Marshal(upstream)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp, err := s.inference.Generate(c.Request.Context(), payload)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	if !resp.OK() {
		s.relayUpstream(c, resp)
		return
	}

	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: "invalid inference response: " + err.Error()})
		return
	}
	body["character_name"] = req.CharacterData.Name

	c.JSON(resp.StatusCode, body)
}

// handleListModels relays the inference server's model catalog.
func (s *Server) handleListModels(c *gin.Context) {
	resp, err := s.inference.ListModels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	s.relayUpstream(c, resp)
}

// swapRequest is the swap-initiation payload.
type swapRequest struct {
	PrivateKey string `json:"privateKey"`
	Amount     string `json:"amount"`
	SrcChain   string `json:"srcChain"`
	DstChain   string `json:"dstChain"`
	SrcToken   string `json:"srcToken"`
	DstToken   string `json:"dstToken"`
	RPCURL     string `json:"rpc"`
}

// swapResponse echoes the effective swap parameters. The wallet key is
// never echoed.
type swapResponse struct {
	OrderHash   string `json:"orderHash"`
	SrcChain    string `json:"srcChain"`
	DstChain    string `json:"dstChain"`
	SrcChainID  uint64 `json:"srcChainId"`
	DstChainID  uint64 `json:"dstChainId"`
	Amount      string `json:"amount"`
	SrcToken    string `json:"srcToken"`
	DstToken    string `json:"dstToken"`
	SecretCount int    `json:"secretCount"`
	Monitoring  bool   `json:"monitoring"`
}

// handleInitiateSwap validates the request, runs the order lifecycle,
// and reports the submitted order. Monitoring continues in the
// background after the response is sent.
func (s *Server) handleInitiateSwap(c *gin.Context) {
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.PrivateKey == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "privateKey is required"})
		return
	}

	result, err := s.orchestrator.InitiateSwap(c.Request.Context(), swap.SwapParams{
		WalletKey: req.PrivateKey,
		Amount:    req.Amount,
		SrcChain:  req.SrcChain,
		DstChain:  req.DstChain,
		SrcToken:  req.SrcToken,
		DstToken:  req.DstToken,
		RPCURL:    req.RPCURL,
	})
	if err != nil {
		s.writeSwapError(c, err)
		return
	}

	s.logger.Info("swap initiated",
		observability.String("order_hash", result.OrderHash),
		observability.String("request_id", requestID(c)),
	)

	c.JSON(http.StatusOK, swapResponse{
		OrderHash:   result.OrderHash,
		SrcChain:    result.Params.SrcChain,
		DstChain:    result.Params.DstChain,
		SrcChainID:  result.SrcChainID,
		DstChainID:  result.DstChainID,
		Amount:      result.Params.Amount,
		SrcToken:    result.Params.SrcToken,
		DstToken:    result.Params.DstToken,
		SecretCount: result.SecretCount,
		Monitoring:  true,
	})
}

// handleListChains returns the chain name to network ID table.
func (s *Server) handleListChains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chains": swap.Chains()})
}

// handleOrderStatus relays the relayer's status payload for one order.
func (s *Server) handleOrderStatus(c *gin.Context) {
	orderHash := c.Param("hash")
	if orderHash == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "order hash is required"})
		return
	}

	ctx := observability.ContextWithOrderHash(c.Request.Context(), orderHash)
	status, err := s.orchestrator.OrderStatus(ctx, orderHash)
	if err != nil {
		s.writeSwapError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", status.Raw)
}

// writeSwapError maps orchestration failures onto the error taxonomy:
// client input errors are 400, relayer responses are relayed with
// their original status and body, everything else is 500.
func (s *Server) writeSwapError(c *gin.Context, err error) {
	var chainErr *swap.InvalidChainError
	if errors.As(err, &chainErr) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: chainErr.Error()})
		return
	}
	if errors.Is(err, swap.ErrMissingWalletKey) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var apiErr *swap.APIError
	if errors.As(err, &apiErr) {
		if json.Valid(apiErr.Body) {
			c.Data(apiErr.StatusCode, "application/json", apiErr.Body)
		} else {
			c.JSON(apiErr.StatusCode, errorResponse{Error: apiErr.Error()})
		}
		return
	}

	s.logger.Error("swap operation failed",
		observability.Error(err),
		observability.String("request_id", requestID(c)),
	)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// relayUpstream writes an inference response through unchanged.
func (s *Server) relayUpstream(c *gin.Context, resp *inference.Response) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}

// requestID extracts the request ID installed by the middleware.
func requestID(c *gin.Context) string {
	return observability.RequestIDFromContext(c.Request.Context())
}
