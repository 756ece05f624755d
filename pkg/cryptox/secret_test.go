package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		encodedLen int
	}{
		{"minimum", SecretSize, 43},
		{"48 bytes", 48, 64},
		{"64 bytes", 64, 86},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := GenerateSecret(tt.size)
			require.NoError(t, err)
			require.Len(t, secret, tt.encodedLen)

			raw, err := base64.RawURLEncoding.DecodeString(secret)
			require.NoError(t, err)
			require.Len(t, raw, tt.size)

			other, err := GenerateSecret(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, secret, other)
		})
	}
}

func TestGenerateSecret_TooShort(t *testing.T) {
	for _, size := range []int{-1, 0, 16, SecretSize - 1} {
		secret, err := GenerateSecret(size)
		require.Error(t, err, "size %d", size)
		require.Empty(t, secret)
	}
}

func TestFingerprint(t *testing.T) {
	a1 := Fingerprint("token-a")
	a2 := Fingerprint("token-a")
	b := Fingerprint("token-b")

	require.Equal(t, a1, a2, "fingerprint should be deterministic")
	require.NotEqual(t, a1, b)
	require.Len(t, a1, 12)
	require.NotContains(t, a1, "token")
}
