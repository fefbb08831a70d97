package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./imports", cfg.Import.Directory)
	assert.Equal(t, 100, cfg.Import.ChunkSize)
	assert.Equal(t, 25, cfg.Import.AbortThresholdPct)
	assert.Equal(t, 50, cfg.Import.ErrorDetailCap)
	assert.Equal(t, ",", cfg.Import.Delimiter)
	assert.Equal(t, 30, cfg.API.TimeoutSeconds)
	assert.Empty(t, cfg.API.BaseURL)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
import:
  directory: /data/inbox
  chunk_size: 250
  abort_threshold_pct: 10
  skip_duplicates: true
api:
  base_url: https://api.azlocal.example
s3:
  bucket: azlocal-imports
  region: us-west-2
redis:
  url: redis://localhost:6379/0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/inbox", cfg.Import.Directory)
	assert.Equal(t, 250, cfg.Import.ChunkSize)
	assert.Equal(t, 10, cfg.Import.AbortThresholdPct)
	assert.True(t, cfg.Import.SkipDuplicates)
	assert.Equal(t, "https://api.azlocal.example", cfg.API.BaseURL)
	assert.Equal(t, "azlocal-imports", cfg.S3.Bucket)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "import: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://file.example
`)
	t.Setenv("DIRECTORY_API_URL", "https://env.example")
	t.Setenv("IMPORT_CHUNK_SIZE", "500")
	t.Setenv("IMPORT_ABORT_THRESHOLD_PCT", "5")
	t.Setenv("IMPORT_DIR", "/env/inbox")
	t.Setenv("REDIS_URL", "redis://env:6379")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.API.BaseURL)
	assert.Equal(t, 500, cfg.Import.ChunkSize)
	assert.Equal(t, 5, cfg.Import.AbortThresholdPct)
	assert.Equal(t, "/env/inbox", cfg.Import.Directory)
	assert.Equal(t, "redis://env:6379", cfg.Redis.URL)
}

func TestLoadFromEnvInvalidNumbersIgnored(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://file.example
`)
	t.Setenv("DIRECTORY_API_URL", "")
	t.Setenv("IMPORT_CHUNK_SIZE", "zero")
	t.Setenv("IMPORT_ABORT_THRESHOLD_PCT", "-4")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Import.ChunkSize)
	assert.Equal(t, 25, cfg.Import.AbortThresholdPct)
}

func TestLoadFromEnvRequiresAPIURL(t *testing.T) {
	t.Setenv("DIRECTORY_API_URL", "")
	_, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrMissingAPIURL)
}
