// Package config loads process configuration from the environment and
// .env files, and resolves per-region session credentials.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Env holds configuration read from environment variables.
type Env struct {
	// EnableLogging is interpreted by logging.EnabledFromEnv so that
	// "on" and "yes" work as well as "true" and "1".
	EnableLogging string `env:"ENABLE_LOGGING" envDefault:"false"`

	HTTPSProxy string `env:"HTTPS_PROXY"`
	HTTPProxy  string `env:"HTTP_PROXY"`

	// RequestTimeout bounds each auth and query request.
	RequestTimeout time.Duration `env:"LOGID_TIMEOUT" envDefault:"30s"`

	// TokenLifetime is the nominal lifetime assigned to fetched tokens;
	// the auth service does not report one.
	TokenLifetime time.Duration `env:"LOGID_TOKEN_LIFETIME" envDefault:"1h"`

	FiltersFile string `env:"LOGID_FILTERS"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (*Env, error) {
	cfg := &Env{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("LOGID_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.TokenLifetime <= 0 {
		return nil, fmt.Errorf("LOGID_TOKEN_LIFETIME must be positive, got %s", cfg.TokenLifetime)
	}
	return cfg, nil
}
