package ioconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/internal/ioconfig"
	"github.com/mushafdb/mushafdb/pkg/config"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	res, err := ioconfig.Load("", home)
	require.NoError(t, err)

	assert.Equal(t, "localhost", res.Config.Database.Host)
	assert.Equal(t, 5432, res.Config.Database.Port)
	assert.Equal(t, "mushaf", res.Config.Database.Database)
	assert.Equal(t, home, res.Config.HomeDir)
	assert.Equal(t, config.MediaDir(home), res.Config.Media.Dir)
	assert.Empty(t, res.SourcePath)
}

func TestLoadFile(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.yaml")

	yml := `database:
  host: db.example.org
  port: 5433
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	res, err := ioconfig.Load(path, home)
	require.NoError(t, err)

	assert.Equal(t, "file", res.Source)
	assert.Equal(t, path, res.SourcePath)
	assert.Equal(t, "db.example.org", res.Config.Database.Host)
	assert.Equal(t, 5433, res.Config.Database.Port)
	assert.Equal(t, "debug", res.Config.Log.Level)
	// Unset keys keep defaults.
	assert.Equal(t, "postgres", res.Config.Database.User)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	home := t.TempDir()
	_, err := ioconfig.Load(filepath.Join(home, "nope.yaml"), home)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("MUSHAFDB_DATABASE_HOST", "env-host")
	t.Setenv("MUSHAFDB_JOBS_NUMBER", "3")

	res, err := ioconfig.Load("", home)
	require.NoError(t, err)

	assert.Equal(t, "defaults+env", res.Source)
	assert.Equal(t, "env-host", res.Config.Database.Host)
	assert.Equal(t, 3, res.Config.JobsNumber)
}

func TestGenerateDefaultConfig(t *testing.T) {
	home := t.TempDir()

	path, err := ioconfig.GenerateDefaultConfig(home)
	require.NoError(t, err)
	assert.Equal(t, config.ConfigFilePath(home), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "MUSHAFDB_")

	_, err = os.Stat(config.SourcesFilePath(home))
	assert.NoError(t, err)

	// Second run refuses to overwrite.
	_, err = ioconfig.GenerateDefaultConfig(home)
	assert.Error(t, err)
}
