// Package config loads the application configuration.
//
// Sources, lowest priority first:
//  1. env-default tags on the structs below
//  2. an optional YAML file (CONFIG_PATH env var or the --config flag)
//  3. environment variables, including any loaded from a .env file
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Advisor providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// SkipSeed disables loading the four sample students into an empty
	// store at startup.
	SkipSeed bool `yaml:"skip_seed" env:"SKIP_SEED"`

	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	Advisor    Advisor `yaml:"advisor"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Storage selects and configures the record store backend.
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`

	// Path is the SQLite database path. ":memory:" keeps it non-durable.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:":memory:"`

	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	RedisPrefix   string `yaml:"redis_prefix" env:"REDIS_PREFIX" env-default:"students:"`
}

// Advisor configures the upstream chat-completion API.
type Advisor struct {
	Provider string `yaml:"provider" env:"ADVISOR_PROVIDER" env-default:"openai"`

	// APIKey may be empty at startup; advice calls then fail with a 502.
	APIKey string `yaml:"api_key" env:"OPENAI_API_KEY"`

	// GeminiAPIKey is only read when Provider is "gemini".
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`

	BaseURL     string        `yaml:"base_url" env:"ADVISOR_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model       string        `yaml:"model" env:"ADVISOR_MODEL" env-default:"gpt-4o-mini"`
	Temperature float32       `yaml:"temperature" env:"ADVISOR_TEMPERATURE" env-default:"0.7"`
	MaxTokens   int           `yaml:"max_tokens" env:"ADVISOR_MAX_TOKENS" env-default:"50"`
	Timeout     time.Duration `yaml:"timeout" env:"ADVISOR_TIMEOUT" env-default:"30s"`
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables are used. A .env file in the working
// directory is loaded first if one exists; variables already set in the
// environment win over it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config: file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Advisor.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("config: unknown advisor provider %q", c.Advisor.Provider)
	}

	if c.Advisor.MaxTokens <= 0 {
		return fmt.Errorf("config: advisor.max_tokens must be positive, got %d", c.Advisor.MaxTokens)
	}
	return nil
}
