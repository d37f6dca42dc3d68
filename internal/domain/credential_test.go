package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSecretAndVerify(t *testing.T) {
	digest := HashSecret("1234")

	assert.True(t, VerifySecret("1234", digest))
	assert.False(t, VerifySecret("4321", digest))
	assert.False(t, VerifySecret("", digest))
	assert.NotContains(t, digest, "1234", "digest must not embed the plaintext secret")
}

func TestHashSecretSaltIsRandom(t *testing.T) {
	first := HashSecret("1234")
	second := HashSecret("1234")

	assert.NotEqual(t, first, second, "each digest must carry a fresh salt")
	assert.True(t, VerifySecret("1234", first))
	assert.True(t, VerifySecret("1234", second))
}

func TestVerifySecretMalformedDigest(t *testing.T) {
	tests := []struct {
		name   string
		digest string
	}{
		{"empty", ""},
		{"no separator", "abcdef"},
		{"too many segments", "a:b:c"},
		{"invalid base64 salt", "%%%:" + strings.Repeat("A", 44)},
		{"invalid base64 hash", "QUFBQUFBQUFBQUFBQUFBQQ==:%%%"},
		{"short salt", "QQ==:" + strings.Repeat("A", 44)},
		{"short hash", "QUFBQUFBQUFBQUFBQUFBQQ==:QQ=="},
		{"plain text", "not a digest at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Malformed input must yield false, never panic or error.
			assert.False(t, VerifySecret("1234", tt.digest))
		})
	}
}
