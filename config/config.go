// Package config loads process-wide configuration from the environment.
// A .env file in the working directory is loaded first when present, then
// values are parsed into the Config struct. Configuration is loaded once at
// startup and never mutated.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultSessionSecret is the placeholder baked into fresh deployments.
// Running with it is a misconfiguration that Load's caller must surface.
const DefaultSessionSecret = "please-change-me"

// Token store kinds selectable via TOKEN_STORE.
const (
	TokenStoreEnvFile = "envfile"
	TokenStoreLogFile = "logfile"
	TokenStoreBolt    = "bolt"
)

// Config holds the immutable process configuration.
type Config struct {
	APIKey    string `env:"KITE_API_KEY,required"`
	APISecret string `env:"KITE_API_SECRET,required"`

	BaseURL       string `env:"APP_BASE_URL" envDefault:"http://127.0.0.1:8000"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"please-change-me"`

	// SeedAccessToken pre-populates the durable fallback on startup so a
	// restart does not force a re-login.
	SeedAccessToken string `env:"KITE_ACCESS_TOKEN"`

	// PublicPrefix is the path prefix this service is mounted under behind
	// a reverse proxy. The X-Forwarded-Prefix request header takes
	// precedence when both are set.
	PublicPrefix string `env:"PUBLIC_PREFIX"`

	// Upstream overrides, primarily for tests.
	KiteAPIURL   string `env:"KITE_API_URL"`
	KiteLoginURL string `env:"KITE_LOGIN_URL"`

	TokenStore   string `env:"TOKEN_STORE" envDefault:"envfile"`
	EnvFile      string `env:"ENV_FILE" envDefault:".env"`
	TokenLogFile string `env:"TOKEN_LOG_FILE" envDefault:"tokens.log"`
	DataDir      string `env:"DATA_DIR" envDefault:"./data"`

	// LogoutClearsFallback controls whether POST /logout also clears the
	// durable fallback token. When true (default) a logout fully signs the
	// operator out; when false the fallback token is retained and API
	// access keeps working until the token expires upstream.
	LogoutClearsFallback bool `env:"LOGOUT_CLEARS_FALLBACK" envDefault:"true"`
}

// Load reads configuration from the environment. Missing mandatory keys
// make Load fail; the process must not start without them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// RedirectURI returns the callback URL registered with the Kite developer
// console, derived from the configured base URL.
func (c *Config) RedirectURI() string {
	return strings.TrimRight(c.BaseURL, "/") + "/callback"
}

// InsecureSessionSecret reports whether the deployment still runs with the
// placeholder session secret.
func (c *Config) InsecureSessionSecret() bool {
	return c.SessionSecret == DefaultSessionSecret
}
