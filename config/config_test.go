package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parseMap(map[string]string{"JWT_SECRET_KEY": "s3cret"})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.SchedulerInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.R2().Enabled())

	driver, dsn := cfg.Database()
	assert.Equal(t, DriverMemory, driver)
	assert.Empty(t, dsn)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := parseMap(map[string]string{
		"JWT_SECRET_KEY":            "s3cret",
		"SERVER_PORT":               "9090",
		"DB_PATH":                   "/tmp/league.db",
		"CORS_ALLOWED_ORIGINS":      "https://league.example",
		"STATUS_SCHEDULER_INTERVAL": "0",
		"LOG_LEVEL":                 "debug",
		"R2_ACCOUNT_ID":             "acc",
		"R2_ACCESS_KEY_ID":          "key",
		"R2_SECRET_ACCESS_KEY":      "secret",
		"R2_BUCKET_NAME":            "events",
		"R2_PUBLIC_BASE_URL":        "https://cdn.example",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"https://league.example"}, cfg.CORSAllowedOrigins)
	assert.Zero(t, cfg.SchedulerInterval)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.R2().Enabled())

	driver, dsn := cfg.Database()
	assert.Equal(t, DriverSQLite, driver)
	assert.Equal(t, "/tmp/league.db", dsn)

	cfg.DatabaseURL = "postgres://league@localhost/league"
	driver, _ = cfg.Database()
	assert.Equal(t, DriverPostgres, driver)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{name: "missing secret", vars: map[string]string{}},
		{name: "empty secret", vars: map[string]string{"JWT_SECRET_KEY": ""}},
		{name: "port not a number", vars: map[string]string{"JWT_SECRET_KEY": "s", "SERVER_PORT": "http"}},
		{name: "port out of range", vars: map[string]string{"JWT_SECRET_KEY": "s", "SERVER_PORT": "70000"}},
		{name: "negative interval", vars: map[string]string{"JWT_SECRET_KEY": "s", "STATUS_SCHEDULER_INTERVAL": "-1s"}},
		{name: "bad log level", vars: map[string]string{"JWT_SECRET_KEY": "s", "LOG_LEVEL": "verbose"}},
		{name: "partial R2", vars: map[string]string{"JWT_SECRET_KEY": "s", "R2_BUCKET_NAME": "events"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseMap(tt.vars)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
