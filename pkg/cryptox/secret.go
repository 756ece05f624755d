package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// SecretSize is the default signing secret length in bytes. It matches the
// HS256 minimum enforced by pkg/jwtx.
const SecretSize = 32

// GenerateSecret returns size random bytes encoded as base64url without
// padding. The encoded form is what operators paste into JWT_SECRET.
func GenerateSecret(size int) (string, error) {
	if size < SecretSize {
		return "", fmt.Errorf("cryptox: secret size must be at least %d bytes, got %d", SecretSize, size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Fingerprint returns a short, stable digest of a credential that is safe to
// put in logs. Twelve base64url characters (72 bits) are enough to correlate
// log lines without giving anything away.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:12]
}
