// Package config содержит логику чтения конфигурации сервиса ланчонете.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress = "localhost:8080"
	defaultSessionTTL = 24 * time.Hour
)

// Config содержит параметры конфигурации сервиса ланчонете.
type Config struct {
	RunAddress          string        `env:"RUN_ADDRESS"`
	DatabaseURI         string        `env:"DATABASE_URI"`
	CatalogPath         string        `env:"CATALOG_PATH"`
	AuthSecret          string        `env:"AUTH_SECRET"`
	AuthProviderAddress string        `env:"AUTH_PROVIDER_ADDRESS"`
	AuthProviderKey     string        `env:"AUTH_PROVIDER_KEY"`
	SessionTTL          time.Duration `env:"SESSION_TTL"`
}

// Parse считывает конфигурацию из .env, переменных окружения и флагов командной строки.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fromEnv := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI for accounts, in-memory when empty")
	flag.StringVar(&cfg.CatalogPath, "c", "", "path to YAML menu, built-in menu when empty")
	flag.StringVar(&cfg.AuthSecret, "s", "", "secret for signing auth cookies")
	flag.StringVar(&cfg.AuthProviderAddress, "p", "", "remote auth provider address")
	flag.StringVar(&cfg.AuthProviderKey, "k", "", "remote auth provider API key")
	flag.DurationVar(&cfg.SessionTTL, "t", defaultSessionTTL, "auth cookie lifetime")

	flag.Parse()

	if fromEnv.RunAddress != "" {
		cfg.RunAddress = fromEnv.RunAddress
	}
	if fromEnv.DatabaseURI != "" {
		cfg.DatabaseURI = fromEnv.DatabaseURI
	}
	if fromEnv.CatalogPath != "" {
		cfg.CatalogPath = fromEnv.CatalogPath
	}
	if fromEnv.AuthSecret != "" {
		cfg.AuthSecret = fromEnv.AuthSecret
	}
	if fromEnv.AuthProviderAddress != "" {
		cfg.AuthProviderAddress = fromEnv.AuthProviderAddress
	}
	if fromEnv.AuthProviderKey != "" {
		cfg.AuthProviderKey = fromEnv.AuthProviderKey
	}
	if fromEnv.SessionTTL != 0 {
		cfg.SessionTTL = fromEnv.SessionTTL
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	return cfg, nil
}
