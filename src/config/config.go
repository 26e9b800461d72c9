// Package config loads the randomd service settings from the environment.
// The entropy mechanism itself has no settings.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lost-woods/racerandom/src/rng"
)

const (
	SourceRace   = "race"
	SourceSerial = "serial"
)

type Config struct {
	Port            string           `env:"PORT"                envDefault:"777"`
	APIKey          string           `env:"API_KEY"`
	Source          string           `env:"RNG_SOURCE"          envDefault:"race"`
	HealthInterval  time.Duration    `env:"RNG_HEALTH_INTERVAL" envDefault:"10s"`
	ShutdownTimeout time.Duration    `env:"SHUTDOWN_TIMEOUT"    envDefault:"5s"`
	Serial          rng.SerialConfig `envPrefix:"SERIAL_"`
}

// Load parses the process environment.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Source {
	case SourceRace, SourceSerial:
	default:
		return fmt.Errorf("invalid RNG_SOURCE %q: want %q or %q", c.Source, SourceRace, SourceSerial)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.HealthInterval <= 0 {
		return fmt.Errorf("RNG_HEALTH_INTERVAL must be positive, got %s", c.HealthInterval)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}
