package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "1h", cfg.JWT.AccessExpiry)
	assert.Equal(t, "24h", cfg.JWT.RefreshExpiry)
	assert.Equal(t, 900, cfg.OTP.ValidityWindowSeconds)
	assert.Equal(t, 900*time.Second, cfg.OTPValidityWindow())
	assert.Equal(t, 12, cfg.Security.BCryptCost)
	assert.Equal(t, "https://test.api.amadeus.com", cfg.Amadeus.BaseURL)
	assert.Equal(t, "http://ip-api.com", cfg.Geo.BaseURL)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
database:
  host: db.internal
  name: voyage
jwt:
  secret: file-secret
otp:
  validity_window_seconds: 120
email:
  resend:
    enabled: true
    api_key: re_test
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte(content), 0o600))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })

	oldConfig := AppConfig
	t.Cleanup(func() { AppConfig = oldConfig })

	require.NoError(t, LoadConfig())
	cfg := GetConfig()

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "voyage", cfg.Database.Name)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 120*time.Second, cfg.OTPValidityWindow())
	assert.True(t, cfg.Email.Resend.Enabled)

	// Unset fields still pick up their defaults
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 12, cfg.Security.BCryptCost)
}

func TestLoadConfigMissingFile(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })

	assert.Error(t, LoadConfig())
}
