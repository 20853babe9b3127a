package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string `env:"GEMINI_API_KEY,required,notEmpty"`

	// Model is the Gemini model used for every generation.
	Model string `env:"ARENA_MODEL" envDefault:"gemini-2.5-flash"`

	// RequestTimeout bounds each outbound model call.
	RequestTimeout time.Duration `env:"ARENA_REQUEST_TIMEOUT" envDefault:"30s"`

	// MaxRetries is how many times a failed model call is retried before
	// the error is surfaced.
	MaxRetries int `env:"ARENA_MAX_RETRIES" envDefault:"2"`

	// HeroFile optionally points at a YAML hero definition that replaces
	// the built-in hero.
	HeroFile string `env:"ARENA_HERO_FILE"`

	// TranscriptDir is where finished battles are exported.
	TranscriptDir string `env:"ARENA_TRANSCRIPT_DIR" envDefault:".battles"`

	// Debug enables verbose logging, including raw model responses on
	// parse failures.
	Debug bool `env:"ARENA_DEBUG"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("ARENA_REQUEST_TIMEOUT must be positive")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("ARENA_MAX_RETRIES must not be negative")
	}

	return &cfg, nil
}
