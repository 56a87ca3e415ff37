package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  port: 4000
inference:
  baseUrl: "http://localhost:11434"
  timeout: "90s"
tunables:
  retry:
    maxRetries: 5
    initialBackoff: "2s"
  monitor:
    interval: "10s"
    maxAttempts: 30
`

func TestLoadConfigFromReader(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFromReader(strings.NewReader(testYAML))
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Inference.Timeout.Duration())
	assert.Equal(t, 5, cfg.Tunables.Retry.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Tunables.Retry.InitialBackoff.Duration())
	assert.Equal(t, 10*time.Second, cfg.Tunables.Monitor.Interval.Duration())
	assert.Equal(t, 30, cfg.Tunables.Monitor.MaxAttempts)

	// Untouched sections keep their defaults.
	assert.Equal(t, 9091, cfg.Server.AdminPort)
	assert.Equal(t, "sillyboy", cfg.Swap.SourceTag)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sillyboy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFromReader(strings.NewReader("server: [not a map"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("SILLYBOY_TEST_PORT", "5000")

	yaml := `
server:
  port: ${SILLYBOY_TEST_PORT}
  adminPort: ${SILLYBOY_TEST_UNSET:-9999}
`
	cfg, err := LoadConfigFromReader(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 9999, cfg.Server.AdminPort)
}

func TestSubstituteEnvVars_EscapedDollar(t *testing.T) {
	t.Parallel()

	result := substituteEnvVars("price: $$100")
	assert.Equal(t, "price: $100", result)
}
