package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct using `env`
// tags. internal/config defines the service's full configuration on top of
// this; keep new settings there rather than reading os.Getenv at call sites.
//
// Example:
//
//	type Config struct {
//	    HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
//	    DataBaseURL string `env:"XANO_DATA_BASE_URL"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
