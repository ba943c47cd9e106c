package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	Cache struct {
		TTL string `yaml:"ttl" env:"CACHE_TTL"`
	} `yaml:"cache"`
	Auth struct {
		Secret   string `yaml:"secret" env:"AUTH_SECRET"`
		TokenTTL string `yaml:"token_ttl" env:"AUTH_TOKEN_TTL"`
	} `yaml:"auth"`
	Uploads struct {
		Dir string `yaml:"dir" env:"UPLOADS_DIR"`
	} `yaml:"uploads"`
	Seed bool `yaml:"seed" env:"SEED_SAMPLE_GAMES"`
}

// Load reads YAML config from path, then applies environment overrides.
// A missing file is not an error; the service then runs on env and defaults alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return cfg, err
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
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
