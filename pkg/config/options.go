package config

import (
	"log/slog"
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains valid.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "disable", "require", "verify-ca", "verify-full":
			c.Database.SSLMode = s
		default:
			slog.Warn("Invalid SSL mode, keeping previous value",
				"value", s)
		}
	}
}

// OptDatabaseBatchSize sets the number of records to process per batch.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptMediaDir sets the root directory for stored recitation files.
func OptMediaDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Media Dir", s) {
			c.Media.Dir = s
		}
	}
}

// OptPopulateSnapshotPath sets the path to the corpus SQLite snapshot.
// Runtime-only field, set by a CLI flag.
func OptPopulateSnapshotPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Snapshot Path", s) {
			c.Populate.SnapshotPath = s
		}
	}
}

// OptPopulateDropExisting sets whether populate may drop existing corpus
// data before a fresh bootstrap. Runtime-only field, set by a CLI flag.
func OptPopulateDropExisting(b bool) Option {
	return func(c *Config) {
		c.Populate.DropExisting = b
	}
}

// OptLogFormat sets the log output format ('json' or 'text').
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "json", "text":
			c.Log.Format = s
		default:
			slog.Warn("Invalid log format, keeping previous value",
				"value", s)
		}
	}
}

// OptLogLevel sets the logging level.
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "debug", "info", "warn", "error":
			c.Log.Level = s
		default:
			slog.Warn("Invalid log level, keeping previous value",
				"value", s)
		}
	}
}

// OptLogDestination sets the log destination ('stderr' or 'stdout').
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "stderr", "stdout":
			c.Log.Destination = s
		default:
			slog.Warn("Invalid log destination, keeping previous value",
				"value", s)
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, media and logs.
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Dir", s) {
			c.HomeDir = s
		}
	}
}

func isValidString(field, s string) bool {
	if s == "" {
		slog.Warn("Empty value, keeping previous value", "field", field)
		return false
	}
	return true
}

func isValidInt(field string, i int) bool {
	if i <= 0 {
		slog.Warn("Value must be positive, keeping previous value",
			"field", field, "value", i)
		return false
	}
	return true
}
