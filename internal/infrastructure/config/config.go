package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime knob the API process reads. Values come from
// the environment, optionally seeded from a .env file in development.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	DBURL    string `env:"DB_URL,required"`
	RedisURL string `env:"REDIS_URL,required"`

	AsynqConcurrency int    `env:"ASYNQ_CONCURRENCY" envDefault:"10"`
	AsynqQueues      string `env:"ASYNQ_QUEUES" envDefault:"default=1,messaging=2"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads .env (best-effort) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
