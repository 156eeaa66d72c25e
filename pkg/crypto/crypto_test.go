package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestNewSealer(t *testing.T) {
	t.Run("should accept a 64 hex character key", func(t *testing.T) {
		sealer, err := NewSealer(testKey)
		require.NoError(t, err)
		assert.NotNil(t, sealer)
	})

	t.Run("should reject a key that is not hex", func(t *testing.T) {
		_, err := NewSealer(strings.Repeat("zz", 32))
		assert.Error(t, err)
	})

	t.Run("should reject a key of the wrong length", func(t *testing.T) {
		_, err := NewSealer("0123456789abcdef")
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})
}

func TestSealOpen(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)

	t.Run("should round trip a secret", func(t *testing.T) {
		sealed, err := sealer.Seal([]byte("anon-key"))
		require.NoError(t, err)
		assert.NotEqual(t, []byte("anon-key"), sealed)

		opened, err := sealer.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, []byte("anon-key"), opened)
	})

	t.Run("should produce a fresh nonce per seal", func(t *testing.T) {
		first, err := sealer.Seal([]byte("anon-key"))
		require.NoError(t, err)
		second, err := sealer.Seal([]byte("anon-key"))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("should reject tampered ciphertext", func(t *testing.T) {
		sealed, err := sealer.Seal([]byte("anon-key"))
		require.NoError(t, err)
		sealed[len(sealed)-1] ^= 0xff

		_, err = sealer.Open(sealed)
		assert.Error(t, err)
	})

	t.Run("should reject ciphertext shorter than a nonce", func(t *testing.T) {
		_, err := sealer.Open([]byte{0x01, 0x02})
		assert.ErrorIs(t, err, ErrCiphertextTooShort)
	})

	t.Run("should reject ciphertext sealed with another key", func(t *testing.T) {
		other, err := NewSealer(strings.Repeat("ab", 32))
		require.NoError(t, err)
		sealed, err := other.Seal([]byte("anon-key"))
		require.NoError(t, err)

		_, err = sealer.Open(sealed)
		assert.Error(t, err)
	})
}
