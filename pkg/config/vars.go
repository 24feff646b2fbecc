package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths.
var AppName = "mushafdb"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/mushafdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// MediaDir returns the directory path for stored recitation files.
// Returns ~/.local/share/mushafdb/media by default; overridden by
// Media.Dir when set.
func MediaDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "media")
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/mushafdb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SourcesFilePath returns the full path to the sources.yaml file
// describing translation sources and reciters to bootstrap.
func SourcesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "sources.yaml")
}
