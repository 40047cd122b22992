package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		Secret:         "test-secret",
		Issuer:         "contractor",
		AccessTokenTTL: time.Minute,
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.GenerateAccessToken("u1", "u1@example.com", []string{"CONTRACTOR_RUS"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, "u1@example.com", user.Email)
	assert.Equal(t, []string{"CONTRACTOR_RUS"}, user.Roles)
	assert.NotEmpty(t, user.SessionID)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, _, err := newTestService().GenerateAccessToken("u1", "", []string{"SUPERUSER"})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{Secret: "other", Issuer: "contractor", AccessTokenTTL: time.Minute})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateAccessToken("u1", "", nil)
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RejectsForeignIssuer(t *testing.T) {
	foreign := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "someone-else", AccessTokenTTL: time.Minute})
	token, _, err := foreign.GenerateAccessToken("u1", "", nil)
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_SubjectFallback(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "from-sub",
			Issuer:    "contractor",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Roles: []string{"USER"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	user, err := newTestService().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "from-sub", user.UserID)
}
