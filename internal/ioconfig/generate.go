package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mushafdb/mushafdb/pkg/config"
	"github.com/mushafdb/mushafdb/pkg/templates"
)

// GenerateDefaultConfig writes documented config.yaml and sources.yaml
// templates into the config directory. Existing files are never
// overwritten. Returns the config file path.
func GenerateDefaultConfig(homeDir string) (string, error) {
	configPath := config.ConfigFilePath(homeDir)
	sourcesPath := config.SourcesFilePath(homeDir)

	configExists := fileExists(configPath)
	sourcesExists := fileExists(sourcesPath)

	if configExists && sourcesExists {
		return "", fmt.Errorf(
			"config files already exist at %s", filepath.Dir(configPath))
	}

	if err := os.MkdirAll(config.ConfigDir(homeDir), 0755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}

	if !configExists {
		err := os.WriteFile(configPath, []byte(templates.ConfigYAML), 0644)
		if err != nil {
			return "", fmt.Errorf("cannot write config file: %w", err)
		}
	}

	if !sourcesExists {
		err := os.WriteFile(sourcesPath, []byte(templates.SourcesYAML), 0644)
		if err != nil {
			return "", fmt.Errorf("cannot write sources file: %w", err)
		}
	}

	return configPath, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
