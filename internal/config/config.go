// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration. The signing secret has no default:
// the process must refuse to start without one rather than sign with an
// empty key.
type Config struct {
	Addr          string        `env:"AUTH_ADDR" envDefault:":8080"`
	DatabaseDSN   string        `env:"AUTH_DATABASE_DSN"`
	SigningSecret string        `env:"AUTH_SIGNING_SECRET"`
	AccessTTL     time.Duration `env:"AUTH_ACCESS_TTL" envDefault:"30m"`
	RefreshTTL    time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"3200m"`
}

// Load parses the environment and validates required fields.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.SigningSecret == "" {
		return nil, errors.New("missing signing secret (AUTH_SIGNING_SECRET)")
	}
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("missing database DSN (AUTH_DATABASE_DSN)")
	}
	return cfg, nil
}
