package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjoshi/kitegate/config"
)

// clearKiteEnv unsets every variable Load consumes so tests control the
// full environment. t.Setenv registers the restore; Unsetenv leaves the
// variable absent for the duration of the test.
func clearKiteEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"KITE_API_KEY", "KITE_API_SECRET", "APP_BASE_URL", "SESSION_SECRET",
		"KITE_ACCESS_TOKEN", "PUBLIC_PREFIX", "KITE_API_URL", "KITE_LOGIN_URL",
		"TOKEN_STORE", "ENV_FILE", "TOKEN_LOG_FILE", "DATA_DIR",
		"LOGOUT_CLEARS_FALLBACK",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	clearKiteEnv(t)

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadMissingSecretOnly(t *testing.T) {
	clearKiteEnv(t)
	t.Setenv("KITE_API_KEY", "key123")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	clearKiteEnv(t)
	t.Setenv("KITE_API_KEY", "key123")
	t.Setenv("KITE_API_SECRET", "secret123")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "key123", cfg.APIKey)
	assert.Equal(t, "secret123", cfg.APISecret)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.BaseURL)
	assert.Equal(t, config.TokenStoreEnvFile, cfg.TokenStore)
	assert.Equal(t, ".env", cfg.EnvFile)
	assert.Equal(t, "tokens.log", cfg.TokenLogFile)
	assert.True(t, cfg.LogoutClearsFallback)
	// The envDefault tag must stay in sync with the exported constant.
	assert.Equal(t, config.DefaultSessionSecret, cfg.SessionSecret)
	assert.True(t, cfg.InsecureSessionSecret())
	assert.Equal(t, "http://127.0.0.1:8000/callback", cfg.RedirectURI())
}

func TestLoadOverrides(t *testing.T) {
	clearKiteEnv(t)
	t.Setenv("KITE_API_KEY", "key123")
	t.Setenv("KITE_API_SECRET", "secret123")
	t.Setenv("APP_BASE_URL", "https://broker.example.com/gw/")
	t.Setenv("SESSION_SECRET", "a-real-secret")
	t.Setenv("TOKEN_STORE", "logfile")
	t.Setenv("PUBLIC_PREFIX", "/gw")
	t.Setenv("LOGOUT_CLEARS_FALLBACK", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://broker.example.com/gw/callback", cfg.RedirectURI())
	assert.False(t, cfg.InsecureSessionSecret())
	assert.Equal(t, config.TokenStoreLogFile, cfg.TokenStore)
	assert.Equal(t, "/gw", cfg.PublicPrefix)
	assert.False(t, cfg.LogoutClearsFallback)
}
