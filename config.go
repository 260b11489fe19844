package vitrio

import (
	"os"

	"github.com/vango-dev/vitrio/internal/config"
)

type (
	// Config is the application configuration.
	Config = config.Config

	// AssetsConfig configures the static asset store.
	AssetsConfig = config.AssetsConfig

	// DevConfig configures development mode.
	DevConfig = config.DevConfig

	// LogConfig configures logging.
	LogConfig = config.LogConfig
)

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	return config.New()
}

// LoadConfig reads vitrio.json or vitrio.yaml from dir, applies environment
// overrides and validates the result.
func LoadConfig(dir string) (*Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
