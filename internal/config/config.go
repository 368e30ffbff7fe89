// Package config loads server configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v11"
)

// Config holds everything the server binary needs. Empty RedisURL or
// DatabaseDSN selects the in-memory fallbacks, which is how tests and local
// development run.
type Config struct {
	Addr           string `env:"PLACEFEED_ADDR" envDefault:":3000"`
	RedisURL       string `env:"REDIS_URL"`
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN    string `env:"DATABASE_DSN"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
