// Package config loads runtime configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	OracleAccount   string        `env:"ORACLE_ACCOUNT" envDefault:"mockedfpo"`
	ProviderAccount string        `env:"PROVIDER_ACCOUNT" envDefault:"any"`
	DefaultRateAge  time.Duration `env:"DEFAULT_RATE_AGE" envDefault:"10m"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableMetrics   bool          `env:"ENABLE_METRICS" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
