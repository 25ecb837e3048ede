package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: DEBUG\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPServer.Address)
	assert.Equal(t, "https://ranobedb.org/api/v0", cfg.Catalog.URL)
	assert.Equal(t, "https://images.ranobedb.org/", cfg.Catalog.ImagesURL)
	assert.Equal(t, 50, cfg.Search.Concurrency)
	assert.Equal(t, 25*time.Second, cfg.Search.Timeout)
	assert.Empty(t, cfg.NatsAddress)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  concurrency: 5\n"), 0o600))

	t.Setenv("SEARCH_CONCURRENCY", "7")
	t.Setenv("CATALOG_URL", "http://catalog:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.Concurrency)
	assert.Equal(t, "http://catalog:9000", cfg.Catalog.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
