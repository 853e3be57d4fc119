package jwt

import (
	"testing"
	"time"

	"medical-clinic-api/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(secret string, access time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  access,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAccessToken_CarriesRoleClaim(t *testing.T) {
	svc := newTestService("secret", time.Minute)
	sub := Subject{UserID: uuid.New(), Email: "doc@clinic.test", RoleID: 2, Role: "doctor"}

	token, tokenID, err := svc.GenerateAccessToken(sub)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, claims.UserID)
	assert.Equal(t, "doctor", claims.Role)
	assert.Equal(t, 2, claims.RoleID)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, sub, claims.Owner())
}

func TestGenerateRefreshToken_Type(t *testing.T) {
	svc := newTestService("secret", time.Minute)

	token, _, err := svc.GenerateRefreshToken(Subject{UserID: uuid.New(), Role: "patient", RoleID: 3})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _, err := newTestService("one", time.Minute).GenerateAccessToken(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = newTestService("two", time.Minute).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService("secret", -time.Minute)

	token, _, err := svc.GenerateAccessToken(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := newTestService("secret", time.Minute).ValidateToken("not-a-token")
	assert.Error(t, err)
}
