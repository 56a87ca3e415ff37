package swap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	s1, err := GenerateSecret()
	require.NoError(t, err)
	s2, err := GenerateSecret()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s1, "0x"))
	assert.Len(t, s1, 2+64) // 0x prefix + 32 bytes hex
	assert.NotEqual(t, s1, s2)
}

func TestGenerateSecrets(t *testing.T) {
	t.Parallel()

	secrets, err := GenerateSecrets(3)
	require.NoError(t, err)
	assert.Len(t, secrets, 3)

	// Zero or negative counts still produce one secret: every order
	// needs at least one fill secret.
	secrets, err = GenerateSecrets(0)
	require.NoError(t, err)
	assert.Len(t, secrets, 1)
}

func TestHashSecret(t *testing.T) {
	t.Parallel()

	// keccak-256 of 32 zero bytes, a fixed known vector.
	hash, err := HashSecret("0x" + strings.Repeat("00", 32))
	require.NoError(t, err)
	assert.Equal(t, "0x290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563", hash)

	// Deterministic and prefix-insensitive.
	s, err := GenerateSecret()
	require.NoError(t, err)
	h1, err := HashSecret(s)
	require.NoError(t, err)
	h2, err := HashSecret(strings.TrimPrefix(s, "0x"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, s, h1)
}

func TestHashSecret_Invalid(t *testing.T) {
	t.Parallel()

	_, err := HashSecret("0xzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid secret encoding")

	_, err = HashSecret("0xdead")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestHashSecrets(t *testing.T) {
	t.Parallel()

	secrets, err := GenerateSecrets(2)
	require.NoError(t, err)

	hashes, err := HashSecrets(secrets)
	require.NoError(t, err)
	require.Len(t, hashes, 2)
	assert.NotEqual(t, hashes[0], hashes[1])

	_, err = HashSecrets([]string{"0xbad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret 0")
}
