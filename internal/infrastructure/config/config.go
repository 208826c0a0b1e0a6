// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the client tools and the stub API
type Config struct {
	Client Client
	Log    Log
	Stub   Stub
}

// Client configures the HTTP transport used for exchange-rate requests
type Client struct {
	BaseURL      string        `env:"FX_BASE_URL" env-default:"http://localhost:8090"`
	Timeout      time.Duration `env:"FX_TIMEOUT" env-default:"10s"`
	MaxAttempts  int           `env:"FX_MAX_ATTEMPTS" env-default:"3"`
	RetryBackoff time.Duration `env:"FX_RETRY_BACKOFF" env-default:"1s"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// Stub configures the local exchange-rate API
type Stub struct {
	Port            string        `env:"STUB_PORT" env-default:"8090"`
	DBPath          string        `env:"STUB_DB_PATH" env-default:"./data"`
	ShutdownTimeout time.Duration `env:"STUB_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Load reads configuration from environment variables, after loading .env if present
func Load() (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values cleanenv cannot express in tags
func (c *Config) Validate() error {
	if c.Client.BaseURL == "" {
		return fmt.Errorf("FX_BASE_URL must not be empty")
	}
	if c.Client.MaxAttempts < 1 {
		return fmt.Errorf("FX_MAX_ATTEMPTS must be at least 1, got %d", c.Client.MaxAttempts)
	}
	if c.Client.Timeout < 0 || c.Client.RetryBackoff < 0 {
		return fmt.Errorf("FX_TIMEOUT and FX_RETRY_BACKOFF must not be negative")
	}
	return nil
}
