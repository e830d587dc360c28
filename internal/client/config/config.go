package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the terminal client's settings, read from the environment.
type Config struct {
	APIURL    string        `env:"TRACKER_API_URL" envDefault:"http://localhost:8080/api"`
	ConfigDir string        `env:"TRACKER_CONFIG_DIR"`
	Timeout   time.Duration `env:"TRACKER_TIMEOUT" envDefault:"15s"`
}

// Load parses the environment. ConfigDir defaults to <user config dir>/job-tracker.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.ConfigDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir: %w", err)
		}
		cfg.ConfigDir = filepath.Join(base, "job-tracker")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("TRACKER_TIMEOUT must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}
