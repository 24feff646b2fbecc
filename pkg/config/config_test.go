package config_test

import (
	"testing"

	"github.com/mushafdb/mushafdb/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	cfg := config.New()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "mushaf", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5_000, cfg.Database.BatchSize)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Greater(t, cfg.JobsNumber, 0)
}

func TestUpdate(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("db.example.org"),
		config.OptDatabasePort(5433),
		config.OptDatabaseBatchSize(500),
		config.OptLogLevel("debug"),
		config.OptMediaDir("/var/lib/mushafdb/media"),
	})

	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 500, cfg.Database.BatchSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/lib/mushafdb/media", cfg.Media.Dir)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opt  config.Option
	}{
		{"empty host", config.OptDatabaseHost("  ")},
		{"zero port", config.OptDatabasePort(0)},
		{"negative batch", config.OptDatabaseBatchSize(-1)},
		{"bad ssl mode", config.OptDatabaseSSLMode("tls13")},
		{"bad log level", config.OptLogLevel("verbose")},
		{"bad log format", config.OptLogFormat("logfmt")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			want := *cfg
			cfg.Update([]config.Option{tt.opt})
			assert.Equal(t, want, *cfg, "invalid option must not mutate config")
		})
	}
}

func TestPaths(t *testing.T) {
	home := "/home/editor"
	assert.Equal(t, "/home/editor/.config/mushafdb",
		config.ConfigDir(home))
	assert.Equal(t, "/home/editor/.config/mushafdb/config.yaml",
		config.ConfigFilePath(home))
	assert.Equal(t, "/home/editor/.local/share/mushafdb/media",
		config.MediaDir(home))
}
