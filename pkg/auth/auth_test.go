package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	t.Run("should verify the password it hashed", func(t *testing.T) {
		hash, err := HashPassword("s3cret-pass")
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret-pass", hash)
		assert.True(t, CheckPassword(hash, "s3cret-pass"))
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		hash, err := HashPassword("s3cret-pass")
		require.NoError(t, err)
		assert.False(t, CheckPassword(hash, "other-pass"))
	})

	t.Run("should reject an empty hash", func(t *testing.T) {
		assert.False(t, CheckPassword("", "s3cret-pass"))
	})
}

func TestTokenIssuer(t *testing.T) {
	userID := uuid.New()

	t.Run("should round trip issued claims", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", "lead-central", time.Hour)

		token, err := issuer.Issue(userID, "Maria", "admin")
		require.NoError(t, err)

		claims, err := issuer.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "Maria", claims.Name)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "lead-central", claims.Issuer)

		parsed, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", "lead-central", time.Hour)
		other := NewTokenIssuer("other-secret", "lead-central", time.Hour)

		token, err := other.Issue(userID, "Maria", "admin")
		require.NoError(t, err)

		_, err = issuer.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		issuer := NewTokenIssuer("test-secret", "lead-central", time.Hour)
		_, err = issuer.Validate(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("should reject garbage input", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", "lead-central", time.Hour)
		_, err := issuer.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject a subject that is not a UUID", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-17"}}
		_, err := claims.UserID()
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should fall back to the default TTL", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", "lead-central", 0)
		assert.Equal(t, DefaultTokenTTL, issuer.ttl)
	})
}
