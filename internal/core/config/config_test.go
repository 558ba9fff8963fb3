package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISTANCE_MATRIX_API_KEY", "test-key")
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("WC_URL")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "shipping-distance:", cfg.Redis.KeyPrefix)
	assert.Equal(t, "https://maps.googleapis.com/maps/api/distancematrix/json", cfg.DistanceMatrix.URL)
	assert.Equal(t, 10*time.Second, cfg.DistanceMatrix.Timeout())
	assert.Equal(t, 0.0, cfg.DistanceMatrix.RequestsPerSecond)
	assert.Equal(t, "shipping.yaml", cfg.Shipping.SettingsFile)
	assert.True(t, cfg.Shipping.WatchSettings)
	assert.False(t, cfg.WooCommerce.Enabled())
	assert.False(t, cfg.Proxy.HasProxy())
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DISTANCE_MATRIX_API_KEY", "key-123")
	t.Setenv("DISTANCE_MATRIX_RPS", "2.5")
	t.Setenv("WC_URL", "https://example.com")
	t.Setenv("WC_CONSUMER_KEY", "ck_123")
	t.Setenv("WC_CONSUMER_SECRET", "cs_123")
	t.Setenv("PROXY_ENABLED", "true")
	t.Setenv("PROXY_HOST", "proxy.internal")
	t.Setenv("PROXY_PORT", "3128")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "key-123", cfg.DistanceMatrix.APIKey)
	assert.Equal(t, 2.5, cfg.DistanceMatrix.RequestsPerSecond)
	assert.True(t, cfg.WooCommerce.Enabled())
	assert.Equal(t, "ck_123", cfg.WooCommerce.ConsumerKey)
	assert.True(t, cfg.Proxy.HasProxy())
	assert.Equal(t, "http://proxy.internal:3128", cfg.Proxy.HostPort())
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("DISTANCE_MATRIX_API_KEY")

	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
DISTANCE_MATRIX_API_KEY=file-key
SHIPPING_SETTINGS_FILE=/etc/shipping/settings.yaml
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "file-key", cfg.DistanceMatrix.APIKey)
	assert.Equal(t, "/etc/shipping/settings.yaml", cfg.Shipping.SettingsFile)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("DISTANCE_MATRIX_API_KEY")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration: DISTANCE_MATRIX_API_KEY")
}
