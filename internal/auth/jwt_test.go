package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/model"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("pantry-secret", time.Hour, 7, "mama", model.RoleAdmin)
	require.NoError(t, err)

	claims, err := ValidateToken("pantry-secret", token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "mama", claims.Username)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenIDsAreUnique(t *testing.T) {
	a, err := GenerateToken("s", time.Hour, 1, "ana", model.RoleMember)
	require.NoError(t, err)
	b, err := GenerateToken("s", time.Hour, 1, "ana", model.RoleMember)
	require.NoError(t, err)

	ca, err := ValidateToken("s", a)
	require.NoError(t, err)
	cb, err := ValidateToken("s", b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestDefaultTTL(t *testing.T) {
	token, err := GenerateToken("s", 0, 1, "ana", model.RoleMember)
	require.NoError(t, err)

	claims, err := ValidateToken("s", token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateTokenEmptySecret(t *testing.T) {
	_, err := GenerateToken("", time.Hour, 1, "ana", model.RoleMember)
	assert.Error(t, err)
}

func TestValidateTokenRejects(t *testing.T) {
	good := func() Claims {
		return Claims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti",
				Issuer:    Issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
	}

	foreign := good()
	foreign.Issuer = "someone-else"

	expired := good()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noExpiry := good()
	noExpiry.ExpiresAt = nil

	noID := good()
	noID.ID = ""

	tests := map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   sign(t, jwt.SigningMethodHS256, []byte("other"), good()),
		"foreign issuer": sign(t, jwt.SigningMethodHS256, []byte("secret"), foreign),
		"expired":        sign(t, jwt.SigningMethodHS256, []byte("secret"), expired),
		"no expiry":      sign(t, jwt.SigningMethodHS256, []byte("secret"), noExpiry),
		"no jti":         sign(t, jwt.SigningMethodHS256, []byte("secret"), noID),
		"hs512":          sign(t, jwt.SigningMethodHS512, []byte("secret"), good()),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateToken("secret", token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := ValidateToken("secret", sign(t, jwt.SigningMethodHS256, []byte("secret"), good()))
	assert.NoError(t, err)
}
