// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. For local runs an optional dotenv file is merged into the process
environment first (variables already set in the environment win).

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the API server and the admin CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL      string `env:"DATABASE_URL,required"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	DatabaseMinConns int32  `env:"DATABASE_MIN_CONNS" envDefault:"5"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// RSA key pair for access tokens
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Media storage for avatars, thumbnails and page images
	MediaRoot    string `env:"MEDIA_ROOT"     envDefault:"./data/media"`
	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"/media"`

	// MaxUploadBytes caps multipart image uploads.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Cross-Origin Resource Sharing (production only; development allows any origin)
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"mangashelf.app"`

	// Optional rotating log file, written in addition to stdout
	LogFile        string `env:"LOG_FILE"`
	LogMaxSizeMB   int    `env:"LOG_MAX_SIZE_MB"   envDefault:"100"`
	LogMaxBackups  int    `env:"LOG_MAX_BACKUPS"   envDefault:"5"`
	LogMaxAgeDays  int    `env:"LOG_MAX_AGE_DAYS"  envDefault:"28"`
	LogCompression bool   `env:"LOG_COMPRESS"      envDefault:"true"`
}

// # Configuration Loading

// Load merges the dotenv file named by ENV_FILE (default ".env") when present
// and parses the environment into a [Config].
func Load() (*Config, error) {
	if err := loadDotenv(envFile()); err != nil {
		return nil, err
	}

	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// loadDotenv is a no-op when path does not exist.
func loadDotenv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: failed to load %s: %w", path, err)
	}
	return nil
}

func envFile() string {
	if path := os.Getenv("ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix is the domain suffix accepted by the CORS middleware.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
