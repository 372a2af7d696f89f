package app

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// StorePath is the location of the SQLite store file. The whole
	// application shares this single file; backup and restore operate on
	// it byte for byte.
	StorePath string `envconfig:"STORE_PATH" default:"data/pos.db"`

	// SeedSampleData controls whether `init` loads the demo catalog.
	SeedSampleData bool `envconfig:"SEED_SAMPLE_DATA" default:"false"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.StorePath = strings.TrimSpace(cfg.StorePath)
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
