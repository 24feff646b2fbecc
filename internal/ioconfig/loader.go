// Package ioconfig loads configuration from files and the environment.
// This is an impure package that handles file system operations; the
// pure configuration types live in pkg/config.
package ioconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mushafdb/mushafdb/pkg/config"
)

// LoadResult contains the loaded configuration and metadata about where
// it came from.
type LoadResult struct {
	Config     *config.Config
	SourcePath string // config file used, empty when only defaults/env
	Source     string // "file", "defaults", or "defaults+env"
}

// Load builds a Config from defaults, an optional YAML file and
// MUSHAFDB_* environment variables. When configPath is empty the default
// location (~/.config/mushafdb/config.yaml) is tried; a missing default
// file is not an error.
//
// Precedence (highest to lowest): env vars > config file > defaults.
// CLI flags are applied later by the commands as Option functions.
func Load(configPath, homeDir string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MUSHAFDB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults are set before reading so AutomaticEnv knows every key.
	defaults := config.New()
	v.SetDefault("database.host", defaults.Database.Host)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.user", defaults.Database.User)
	v.SetDefault("database.password", defaults.Database.Password)
	v.SetDefault("database.database", defaults.Database.Database)
	v.SetDefault("database.ssl_mode", defaults.Database.SSLMode)
	v.SetDefault("database.batch_size", defaults.Database.BatchSize)
	v.SetDefault("media.dir", defaults.Media.Dir)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.destination", defaults.Log.Destination)
	v.SetDefault("jobs_number", defaults.JobsNumber)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		defaultPath := config.ConfigFilePath(homeDir)
		if _, err := os.Stat(defaultPath); err == nil {
			v.SetConfigFile(defaultPath)
		}
	}

	configFileRead := false
	usedConfigPath := ""

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if configPath != "" {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
		} else if configPath != "" || v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	} else {
		configFileRead = true
		usedConfigPath = v.ConfigFileUsed()
	}

	cfg := config.New()
	cfg.Update(optionsFromViper(v, homeDir))

	source := "defaults"
	if configFileRead {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     cfg,
		SourcePath: usedConfigPath,
		Source:     source,
	}, nil
}

// optionsFromViper converts resolved viper values into Option functions
// so all mutation and validation stays in pkg/config.
func optionsFromViper(v *viper.Viper, homeDir string) []config.Option {
	opts := []config.Option{
		config.OptDatabaseHost(v.GetString("database.host")),
		config.OptDatabasePort(v.GetInt("database.port")),
		config.OptDatabaseUser(v.GetString("database.user")),
		config.OptDatabasePassword(v.GetString("database.password")),
		config.OptDatabaseDatabase(v.GetString("database.database")),
		config.OptDatabaseSSLMode(v.GetString("database.ssl_mode")),
		config.OptDatabaseBatchSize(v.GetInt("database.batch_size")),
		config.OptLogFormat(v.GetString("log.format")),
		config.OptLogLevel(v.GetString("log.level")),
		config.OptLogDestination(v.GetString("log.destination")),
		config.OptJobsNumber(v.GetInt("jobs_number")),
		config.OptHomeDir(homeDir),
	}

	if dir := v.GetString("media.dir"); dir != "" {
		opts = append(opts, config.OptMediaDir(dir))
	} else {
		opts = append(opts, config.OptMediaDir(config.MediaDir(homeDir)))
	}

	return opts
}

// hasEnvVars checks if any MUSHAFDB_* environment variables are set.
func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MUSHAFDB_") {
			return true
		}
	}
	return false
}
