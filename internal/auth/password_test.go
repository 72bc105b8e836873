package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)

	// Salted: hashing the same input twice yields different digests.
	second, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, second)

	// The plaintext never appears in the digest.
	assert.NotContains(t, hash, "pw123456")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)

	tests := []struct {
		name     string
		plain    string
		hash     string
		expected bool
	}{
		{
			name:     "Correct password",
			plain:    "pw123456",
			hash:     hash,
			expected: true,
		},
		{
			name:     "Wrong password",
			plain:    "wrong-password",
			hash:     hash,
			expected: false,
		},
		{
			name:     "Empty password",
			plain:    "",
			hash:     hash,
			expected: false,
		},
		{
			name:     "Garbage hash",
			plain:    "pw123456",
			hash:     "not-a-bcrypt-digest",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VerifyPassword(tt.plain, tt.hash))
		})
	}
}
