package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{"default config", DefaultLogConfig(), false},
		{"console format", LogConfig{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"invalid level", LogConfig{Level: "verbose"}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestDefaultLogConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultLogConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestContextWithRequestID(t *testing.T) {
	t.Parallel()

	ctx := ContextWithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestContextWithOrderHash(t *testing.T) {
	t.Parallel()

	ctx := ContextWithOrderHash(context.Background(), "0xabc")
	assert.Equal(t, "0xabc", OrderHashFromContext(ctx))
	assert.Empty(t, OrderHashFromContext(context.Background()))
}

func TestLoggerWithContext(t *testing.T) {
	t.Parallel()

	logger := NopLogger()

	ctx := context.Background()
	assert.Same(t, logger, logger.WithContext(ctx))

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithOrderHash(ctx, "0xdef")
	enriched := logger.WithContext(ctx)
	assert.NotNil(t, enriched)
	assert.NotSame(t, logger, enriched)
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")
	assert.NoError(t, logger.Sync())
}
