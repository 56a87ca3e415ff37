package swap

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// secretSize is the byte length of a swap secret.
const secretSize = 32

// GenerateSecret produces one random 32-byte secret as a 0x-prefixed
// hex string.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return "0x" + hex.EncodeToString(buf), nil
}

// GenerateSecrets produces n random secrets, one per expected fill.
func GenerateSecrets(n int) ([]string, error) {
	if n < 1 {
		n = 1
	}
	secrets := make([]string, n)
	for i := range secrets {
		s, err := GenerateSecret()
		if err != nil {
			return nil, err
		}
		secrets[i] = s
	}
	return secrets, nil
}

// HashSecret returns the keccak-256 hash of a hex-encoded secret as a
// 0x-prefixed hex string. The hashes are published with the order; the
// preimages are disclosed only as fills become ready.
func HashSecret(secret string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(secret, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid secret encoding: %w", err)
	}
	if len(raw) != secretSize {
		return "", fmt.Errorf("secret must be %d bytes, got %d", secretSize, len(raw))
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(raw)
	return "0x" + hex.EncodeToString(h.Sum(nil)), nil
}

// HashSecrets hashes every secret in order.
func HashSecrets(secrets []string) ([]string, error) {
	hashes := make([]string, len(secrets))
	for i, s := range secrets {
		h, err := HashSecret(s)
		if err != nil {
			return nil, fmt.Errorf("secret %d: %w", i, err)
		}
		hashes[i] = h
	}
	return hashes, nil
}
