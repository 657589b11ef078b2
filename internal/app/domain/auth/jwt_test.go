package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greencampus/greencampus/internal/app/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testConfig().JWT
	user := testUser(t, "password123")

	token, err := GenerateAccessToken(cfg, user)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(cfg.SecretKey, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, string(models.RoleStudent), claims.Role)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "not-the-password"))
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	cfg := testConfig().JWT
	token, err := GenerateAccessToken(cfg, testUser(t, "password123"))
	require.NoError(t, err)

	_, err = ValidateAccessToken("a-different-secret", token)
	assert.Error(t, err)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	cfg := testConfig().JWT
	cfg.AccessTokenTTL = -time.Minute

	token, err := GenerateAccessToken(cfg, testUser(t, "password123"))
	require.NoError(t, err)

	_, err = ValidateAccessToken(cfg.SecretKey, token)
	assert.Error(t, err)
}
