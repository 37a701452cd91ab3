package jwtauth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketmod/pkg/domain"
)

func signToken(t *testing.T, key, issuer, subject string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, rawClaims{
		Roles: []string{domain.RoleModerator},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	})
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	v := NewValidator("test-key", "test-issuer")

	t.Run("valid token yields actor", func(t *testing.T) {
		claims, err := v.ValidateToken(signToken(t, "test-key", "test-issuer", "42", time.Hour))
		require.NoError(t, err)
		assert.Equal(t, domain.ActorID(42), claims.ActorID)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		_, err := v.ValidateToken(signToken(t, "other-key", "test-issuer", "42", time.Hour))
		assert.Error(t, err)
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		_, err := v.ValidateToken(signToken(t, "test-key", "other-issuer", "42", time.Hour))
		assert.Error(t, err)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		_, err := v.ValidateToken(signToken(t, "test-key", "test-issuer", "42", -time.Minute))
		assert.Error(t, err)
	})

	t.Run("non-numeric subject rejected", func(t *testing.T) {
		_, err := v.ValidateToken(signToken(t, "test-key", "test-issuer", "moderator", time.Hour))
		assert.Error(t, err)
	})
}
