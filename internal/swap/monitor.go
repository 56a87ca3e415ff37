package swap

import (
	"context"
	"sync"
	"time"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

const (
	// DefaultMonitorInterval is the pause between polling iterations.
	DefaultMonitorInterval = 5 * time.Second

	// DefaultMonitorMaxAttempts caps the number of polling iterations.
	DefaultMonitorMaxAttempts = 60
)

// MonitorConfig bounds one monitoring session.
type MonitorConfig struct {
	// Interval is the pause between iterations.
	Interval time.Duration `yaml:"interval" json:"interval"`

	// MaxAttempts caps the number of iterations.
	MaxAttempts int `yaml:"maxAttempts" json:"maxAttempts"`
}

// GetInterval returns the interval or the default.
func (c *MonitorConfig) GetInterval() time.Duration {
	if c == nil || c.Interval <= 0 {
		return DefaultMonitorInterval
	}
	return c.Interval
}

// GetMaxAttempts returns the attempt ceiling or the default.
func (c *MonitorConfig) GetMaxAttempts() int {
	if c == nil || c.MaxAttempts <= 0 {
		return DefaultMonitorMaxAttempts
	}
	return c.MaxAttempts
}

// MonitorOutcome describes how a monitoring session ended.
type MonitorOutcome string

// Monitoring outcomes.
const (
	// OutcomeTerminal means a terminal order status was observed.
	OutcomeTerminal MonitorOutcome = "terminal"

	// OutcomeExhausted means the attempt ceiling was reached first.
	OutcomeExhausted MonitorOutcome = "exhausted"

	// OutcomeCancelled means the context ended the session early.
	OutcomeCancelled MonitorOutcome = "cancelled"
)

// MonitorHandle supervises one background monitoring session. The
// session itself never fails; the handle exposes its progress and
// final observation for callers that care.
type MonitorHandle struct {
	orderHash string
	done      chan struct{}

	mu          sync.RWMutex
	lastStatus  OrderStatus
	outcome     MonitorOutcome
	disclosed   int
	attemptsRun int
}

// OrderHash returns the monitored order's hash.
func (h *MonitorHandle) OrderHash() string {
	return h.orderHash
}

// Done is closed when the session completes.
func (h *MonitorHandle) Done() <-chan struct{} {
	return h.done
}

// LastStatus returns the most recently observed order status.
func (h *MonitorHandle) LastStatus() OrderStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastStatus
}

// Outcome returns how the session ended. It is empty until Done is
// closed.
func (h *MonitorHandle) Outcome() MonitorOutcome {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.outcome
}

// SecretsDisclosed returns how many secrets the session disclosed.
func (h *MonitorHandle) SecretsDisclosed() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.disclosed
}

// Attempts returns how many polling iterations ran.
func (h *MonitorHandle) Attempts() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.attemptsRun
}

func (h *MonitorHandle) setStatus(s OrderStatus) {
	h.mu.Lock()
	h.lastStatus = s
	h.mu.Unlock()
}

func (h *MonitorHandle) recordDisclosure() {
	h.mu.Lock()
	h.disclosed++
	h.mu.Unlock()
}

func (h *MonitorHandle) recordAttempt() {
	h.mu.Lock()
	h.attemptsRun++
	h.mu.Unlock()
}

func (h *MonitorHandle) finish(outcome MonitorOutcome) {
	h.mu.Lock()
	h.outcome = outcome
	h.mu.Unlock()
	close(h.done)
}

// Monitor polls an order until it reaches a terminal status or the
// attempt ceiling, disclosing fill secrets as they become ready.
type Monitor struct {
	relayer Relayer
	logger  observability.Logger

	mu     sync.RWMutex
	config *MonitorConfig
}

// NewMonitor creates a monitor. A nil config uses defaults; a nil
// logger is replaced with a no-op logger.
func NewMonitor(relayer Relayer, config *MonitorConfig, logger observability.Logger) *Monitor {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Monitor{
		relayer: relayer,
		config:  config,
		logger:  logger,
	}
}

// UpdateConfig applies new monitor settings. Sessions already running
// keep the settings they started with.
func (m *Monitor) UpdateConfig(config *MonitorConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// currentConfig snapshots the monitor settings for one session.
func (m *Monitor) currentConfig() *MonitorConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Start spawns a background monitoring session for orderHash and
// returns its supervisory handle immediately. The session observes
// ctx for cancellation but otherwise runs to completion on its own;
// it never reports an error to the caller.
func (m *Monitor) Start(ctx context.Context, orderHash string, secrets []string) *MonitorHandle {
	handle := &MonitorHandle{
		orderHash: orderHash,
		done:      make(chan struct{}),
	}

	go m.run(ctx, handle, secrets)

	return handle
}

// run executes one monitoring session. Each iteration discloses any
// ready fill secrets, sleeps one interval, then checks the order
// status. Individual failures are logged and skipped; only a terminal
// status, the attempt ceiling, or context cancellation end the loop.
func (m *Monitor) run(ctx context.Context, handle *MonitorHandle, secrets []string) {
	cfg := m.currentConfig()
	logger := m.logger.With(observability.String("order_hash", handle.orderHash))
	logger.Info("monitoring started",
		observability.Int("max_attempts", cfg.GetMaxAttempts()),
		observability.Duration("interval", cfg.GetInterval()),
	)

	outcome := OutcomeExhausted

loop:
	for attempt := 0; attempt < cfg.GetMaxAttempts(); attempt++ {
		handle.recordAttempt()

		m.discloseReadySecrets(ctx, handle, secrets, logger)

		select {
		case <-ctx.Done():
			outcome = OutcomeCancelled
			break loop
		case <-time.After(cfg.GetInterval()):
		}

		status, err := m.relayer.GetStatus(ctx, handle.orderHash)
		if err != nil {
			logger.Warn("status check failed",
				observability.Int("attempt", attempt+1),
				observability.Error(err),
			)
			continue
		}

		handle.setStatus(status.Status)
		logger.Debug("status check",
			observability.Int("attempt", attempt+1),
			observability.String("status", string(status.Status)),
		)

		if status.Status.IsTerminal() {
			outcome = OutcomeTerminal
			break loop
		}
	}

	// One final status query for reporting. Failure here is swallowed.
	if final, err := m.relayer.GetStatus(ctx, handle.orderHash); err != nil {
		logger.Warn("final status check failed", observability.Error(err))
	} else {
		handle.setStatus(final.Status)
	}

	recordMonitorOutcome(string(outcome))
	logger.Info("monitoring finished",
		observability.String("outcome", string(outcome)),
		observability.String("final_status", string(handle.LastStatus())),
		observability.Int("secrets_disclosed", handle.SecretsDisclosed()),
	)

	handle.finish(outcome)
}

// discloseReadySecrets submits the secret for every fill the relayer
// reports ready. A failed disclosure for one index does not stop the
// remaining indices.
func (m *Monitor) discloseReadySecrets(ctx context.Context, handle *MonitorHandle, secrets []string, logger observability.Logger) {
	fills, err := m.relayer.ReadySecretFills(ctx, handle.orderHash)
	if err != nil {
		logger.Warn("ready fills check failed", observability.Error(err))
		return
	}

	for _, fill := range fills {
		if fill.Idx < 0 || fill.Idx >= len(secrets) {
			logger.Warn("fill index out of range",
				observability.Int("idx", fill.Idx),
				observability.Int("secrets", len(secrets)),
			)
			continue
		}

		if err := m.relayer.SubmitSecret(ctx, handle.orderHash, secrets[fill.Idx]); err != nil {
			logger.Warn("secret disclosure failed",
				observability.Int("idx", fill.Idx),
				observability.Error(err),
			)
			continue
		}

		handle.recordDisclosure()
		recordSecretDisclosed()
		logger.Info("secret disclosed", observability.Int("idx", fill.Idx))
	}
}
