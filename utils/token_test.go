package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("secret", "sub-1", "a@example.com", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateSessionToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestSessionTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateSessionToken("secret", "sub-1", "a@example.com", "customer", time.Hour)
	require.NoError(t, err)

	_, err = ValidateSessionToken("other", token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired, err := GenerateSessionToken("secret", "sub-1", "a@example.com", "customer", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateSessionToken("secret", expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionTokenRejectsProviderAssertion(t *testing.T) {
	// a provider token signed with the same secret must not pass as a session
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ProviderClaims{
		Email: "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sub-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ValidateSessionToken("secret", signed)
	assert.Error(t, err)
}

func TestParseProviderToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ProviderClaims{
		Email:     "a@example.com",
		FirstName: "Asha",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sub-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
		},
	})
	signed, err := token.SignedString([]byte("provider-secret"))
	require.NoError(t, err)

	claims, err := ParseProviderToken("provider-secret", signed)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims.Subject)
	assert.Equal(t, "Asha", claims.FirstName)

	_, err = ParseProviderToken("wrong", signed)
	assert.Error(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, ProviderClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-1"},
	})
	signed, err = noExpiry.SignedString([]byte("provider-secret"))
	require.NoError(t, err)
	_, err = ParseProviderToken("provider-secret", signed)
	assert.Error(t, err)
}
