package utils

import (
	"testing"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestConfig(t *testing.T) {
	t.Helper()
	old := config.AppConfig
	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  "1h",
			RefreshExpiry: "24h",
		},
	}
	t.Cleanup(func() { config.AppConfig = old })
}

func TestGenerateTokenPairRoundTrip(t *testing.T) {
	setTestConfig(t)
	userID := uuid.New()

	pair, err := GenerateTokenPair(userID, "alice@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	accessClaims, err := ValidateAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, "alice@x.com", accessClaims.Email)
	assert.Equal(t, TokenTypeAccess, accessClaims.TokenType)

	refreshClaims, err := ValidateRefreshToken(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
}

func TestTokenTypeEnforced(t *testing.T) {
	setTestConfig(t)

	pair, err := GenerateTokenPair(uuid.New(), "alice@x.com")
	require.NoError(t, err)

	_, err = ValidateAccessToken(pair.Refresh)
	assert.Error(t, err)

	_, err = ValidateRefreshToken(pair.Access)
	assert.Error(t, err)
}

func TestValidateJWTRejectsTamperedToken(t *testing.T) {
	setTestConfig(t)

	pair, err := GenerateTokenPair(uuid.New(), "alice@x.com")
	require.NoError(t, err)

	tampered := pair.Access[:len(pair.Access)-2] + "xx"
	_, err = ValidateJWT(tampered)
	assert.Error(t, err)

	_, err = ValidateJWT("not-a-token")
	assert.Error(t, err)
}
