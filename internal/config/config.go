package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig reports a config file that fails validation.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server struct {
		Port string `yaml:"port" validate:"omitempty,numeric"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic"`
		Format string `yaml:"format" validate:"omitempty,oneof=pretty json"`
		File   string `yaml:"file"`
	} `yaml:"log"`
	Ledger struct {
		Backend string `yaml:"backend" validate:"oneof=memory sqlite redis postgres"`
		Path    string `yaml:"path" validate:"required_if=Backend sqlite"`
		Key     string `yaml:"key"`
	} `yaml:"ledger"`
	Redis struct {
		Addr     string `yaml:"addr" validate:"omitempty,hostname_port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" validate:"omitempty,url"`
	} `yaml:"postgres"`
	Content struct {
		TTL string `yaml:"ttl"`
	} `yaml:"content"`
}

// Default is used when no config file exists: a local sqlite ledger and pretty logs.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "pretty"
	cfg.Ledger.Backend = "sqlite"
	cfg.Ledger.Path = "edu-games.db"
	return cfg
}

// LoadEnv reads a .env file into the process environment. A missing file is not an error.
func LoadEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// Load reads YAML config from path on top of Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, cfg.Validate()
}

var validate = validator.New()

// Validate checks the struct tags and the cross-section requirements of each ledger backend.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.Ledger.Backend == "redis" && c.Redis.Addr == "":
		return fmt.Errorf("%w: ledger backend redis needs redis.addr", ErrInvalidConfig)
	case c.Ledger.Backend == "postgres" && c.Postgres.URL == "":
		return fmt.Errorf("%w: ledger backend postgres needs postgres.url", ErrInvalidConfig)
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
