package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSealer(t *testing.T) {
	sealer, err := NewTokenSealer("a-very-long-session-secret-for-tests-only")
	require.NoError(t, err)

	t.Run("Seal and Open", func(t *testing.T) {
		token := "eyJhbGciOiJIUzI1NiJ9.payload.signature"
		sealed, err := sealer.Seal(token)
		assert.NoError(t, err)
		assert.NotEmpty(t, sealed)
		assert.NotContains(t, sealed, "payload")

		opened, err := sealer.Open(sealed)
		assert.NoError(t, err)
		assert.Equal(t, token, opened)
	})

	t.Run("Empty string", func(t *testing.T) {
		sealed, err := sealer.Seal("")
		assert.NoError(t, err)
		assert.Empty(t, sealed)

		opened, err := sealer.Open("")
		assert.NoError(t, err)
		assert.Empty(t, opened)
	})

	t.Run("Different ciphertexts for same plaintext", func(t *testing.T) {
		first, _ := sealer.Seal("token")
		second, _ := sealer.Seal("token")
		assert.NotEqual(t, first, second)
	})

	t.Run("Other secret cannot open", func(t *testing.T) {
		sealed, _ := sealer.Seal("token")
		other, err := NewTokenSealer("another-secret-of-sufficient-length!!")
		require.NoError(t, err)

		_, err = other.Open(sealed)
		assert.Error(t, err)
	})

	t.Run("Truncated ciphertext", func(t *testing.T) {
		_, err := sealer.Open("AAAA")
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})
}

func TestTokenSealerWithoutSecret(t *testing.T) {
	_, err := NewTokenSealer("")
	assert.ErrorIs(t, err, ErrEncryptionKeyNotSet)
}
