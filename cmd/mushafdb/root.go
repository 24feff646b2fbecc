package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mushafdb/mushafdb/internal/ioconfig"
	"github.com/mushafdb/mushafdb/pkg/config"
	"github.com/mushafdb/mushafdb/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mushafdb",
		Short: "mushafdb manages the Quran corpus database lifecycle",
		Long: `mushafdb is a CLI tool for administering the Quran corpus
PostgreSQL database: 114 chapters, 6236 verses, and the translations and
recitations attached to them.

Main phases:
  - create:   create database schema and extensions
  - migrate:  apply schema migrations
  - populate: bootstrap the corpus from a SQLite snapshot
  - import:   bulk-import translations from CSV
  - export:   export chapter translations as JSON or CSV

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (MUSHAFDB_*)
  3. Config file (~/.config/mushafdb/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host becomes MUSHAFDB_DATABASE_HOST).

  Examples:
    MUSHAFDB_DATABASE_HOST      PostgreSQL host
    MUSHAFDB_DATABASE_PORT      PostgreSQL port
    MUSHAFDB_DATABASE_USER      PostgreSQL user
    MUSHAFDB_DATABASE_PASSWORD  PostgreSQL password
    MUSHAFDB_DATABASE_DATABASE  Database name
    MUSHAFDB_LOG_LEVEL          Log level (debug/info/warn/error)

  See 'go doc github.com/mushafdb/mushafdb/pkg/config' for the full list.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: bootstrap,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/mushafdb/config.yaml)")

	rootCmd.Flags().BoolP("version", "V", false, "version for mushafdb")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getPopulateCmd())
	rootCmd.AddCommand(getImportCmd())
	rootCmd.AddCommand(getExportCmd())
	rootCmd.AddCommand(getStatsCmd())
	rootCmd.AddCommand(getReindexCmd())
	rootCmd.AddCommand(getActivityCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}

	// Generate config templates on first run; failure is not fatal,
	// defaults still work.
	if cfgFile == "" {
		if _, statErr := os.Stat(config.ConfigFilePath(homeDir)); statErr != nil {
			generatedPath, genErr := ioconfig.GenerateDefaultConfig(homeDir)
			if genErr != nil {
				fmt.Fprintf(os.Stderr,
					"Warning: could not generate config file: %v\n", genErr)
			} else {
				fmt.Fprintf(os.Stderr,
					"Generated default config at: %s\n", generatedPath)
			}
		}
	}

	result, err := ioconfig.Load(cfgFile, homeDir)
	if err != nil {
		return fmt.Errorf("cannot load configuration: %w", err)
	}
	cfg = result.Config

	slog.SetDefault(logger.New(&cfg.Log))

	switch result.Source {
	case "file":
		slog.Debug("Configuration loaded", "config_file", result.SourcePath)
	case "defaults+env":
		slog.Debug("Using built-in defaults with environment overrides")
	default:
		slog.Debug("Using built-in defaults (no config file)")
	}

	return nil
}

// getConfig returns the loaded configuration for use in subcommands.
func getConfig() *config.Config {
	return cfg
}
