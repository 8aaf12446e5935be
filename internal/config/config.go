// Package config reads process-wide defaults from the environment.
// Command-line flags override these values.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment defaults shared by every command.
type Config struct {
	DBPath          string        `env:"QUIXO_DB"               envDefault:"quixo.db"`
	Addr            string        `env:"QUIXO_ADDR"             envDefault:":8080"`
	Language        string        `env:"QUIXO_LANG"             envDefault:"en"`
	ShutdownTimeout time.Duration `env:"QUIXO_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		return Config{}, fmt.Errorf("parse env: QUIXO_DB must not be empty")
	}
	return cfg, nil
}
