// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full service configuration. Every field has an env tag;
// unset optional integrations (Redis, Postgres) stay empty and are skipped
// at wiring time.
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Players int   `env:"MATCH_PLAYERS" envDefault:"2"`
	Seed    int64 `env:"MATCH_SEED"` // 0 seeds from the clock

	MatchLogDir string `env:"MATCH_LOG_DIR" envDefault:"match-logs"`

	JWTSecret   string `env:"JWT_SECRET,required,notEmpty"`
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// Load reads .env if present, then parses the environment. A missing .env
// file is not an error; a malformed environment is.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return &cfg, nil
}
