package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-league/storage"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds every application setting. DatabaseURL wins over DBPath; with neither set
// the service keeps its state in memory.
type Config struct {
	ServerPort         int           `env:"SERVER_PORT" envDefault:"8080"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	DBPath             string        `env:"DB_PATH"`
	JWTSecretKey       string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:3001"`
	SchedulerInterval  time.Duration `env:"STATUS_SCHEDULER_INTERVAL" envDefault:"30s"`
	LogLevel           slog.Level    `env:"LOG_LEVEL" envDefault:"info"`

	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`
}

// Load reads configuration from the environment, loading a .env file first if one exists.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.SchedulerInterval < 0 {
		return fmt.Errorf("STATUS_SCHEDULER_INTERVAL must not be negative, got %s", c.SchedulerInterval)
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return errors.New("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	r2 := []string{c.R2AccountID, c.R2AccessKeyID, c.R2SecretAccessKey, c.R2BucketName, c.R2PublicBaseURL}
	set := 0
	for _, v := range r2 {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(r2) {
		return errors.New("R2 settings are incomplete: set all of R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME, R2_PUBLIC_BASE_URL or none")
	}
	return nil
}

// Database returns the driver name and data source to open.
func (c *Config) Database() (driver, dsn string) {
	switch {
	case c.DatabaseURL != "":
		return DriverPostgres, c.DatabaseURL
	case c.DBPath != "":
		return DriverSQLite, c.DBPath
	}
	return DriverMemory, ""
}

func (c *Config) R2() storage.CloudflareR2Config {
	return storage.CloudflareR2Config{
		AccountID:       c.R2AccountID,
		AccessKeyID:     c.R2AccessKeyID,
		SecretAccessKey: c.R2SecretAccessKey,
		BucketName:      c.R2BucketName,
		PublicBaseURL:   c.R2PublicBaseURL,
	}
}
