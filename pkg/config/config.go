// Package config provides configuration management for mushafdb.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Loading from file/env/flags happens in internal/ioconfig.
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
//   - Default config (from New()) is always valid - no validation needed
//   - All mutations go through Option functions - the only way to modify Config
//   - Invalid options are rejected with a warning - config remains valid
//   - Environment variables use the MUSHAFDB_ prefix with underscores for
//     nesting: MUSHAFDB_DATABASE_HOST, MUSHAFDB_LOG_LEVEL, MUSHAFDB_JOBS_NUMBER
package config

import (
	"runtime"
)

// Config represents the complete mushafdb configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Media contains settings for recitation file storage.
	Media MediaConfig `mapstructure:"media" yaml:"media"`

	// Populate contains settings specific to the populate command.
	Populate PopulateConfig `mapstructure:"populate" yaml:"populate"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel
	// operations. Defaults to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, media and logs directories reside.
	// It is set by the CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records per batch for bulk
	// operations. Used by populate (corpus bootstrap) and the bulk
	// exchange engine. Larger batches are faster but use more memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// MediaConfig contains settings for stored recitation audio files.
type MediaConfig struct {
	// Dir is the root directory where uploaded recitation files are kept.
	// Empty value means <HomeDir>/.local/share/mushafdb/media.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// PopulateConfig contains settings specific to the populate command.
type PopulateConfig struct {
	// SnapshotPath is the path to a SQLite snapshot of the canonical
	// corpus (chapters and verses). Runtime-only, set by CLI flag.
	SnapshotPath string `mapstructure:"-" yaml:"-"`

	// DropExisting is true when an already populated corpus should be
	// dropped and recreated. Runtime-only, set by CLI flag.
	DropExisting bool `mapstructure:"-" yaml:"-"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
	// Destination can be 'stderr' or 'stdout'.
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "mushaf",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "stderr",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
