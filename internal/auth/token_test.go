package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/freelance-marketplace/internal/domain"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	token, err := tm.GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), token.ExpiresAt, time.Minute)

	claims, err := tm.ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleClient, claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenManagerRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenManager("secret", 24*time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }

	token, err := issuer.GenerateToken("user-1", domain.RoleFreelancer)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 24*time.Hour).ParseToken(token.Value)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManagerRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("other-secret", 0).GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 0).ParseToken(token.Value)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestTokenManagerRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: "user-1",
		Role:   domain.RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 0).ParseToken(signed)
	assert.Error(t, err)
}

func TestTokenManagerRequiresExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 0).ParseToken(signed)
	assert.Error(t, err)
}
