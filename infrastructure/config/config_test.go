package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

		require.NoError(t, err)
		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, PolicyAuto, cfg.Storage.Policy)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
environment: production
storage:
  base_path: /var/lib/sailing
  policy: durable
logging:
  level: warn
observability:
  circuit_breaker_enabled: true
`)

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "production", cfg.Environment)
		assert.Equal(t, "/var/lib/sailing", cfg.Storage.BasePath)
		assert.Equal(t, PolicyDurable, cfg.Storage.Policy)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.True(t, cfg.Observability.CircuitBreakerEnabled)
	})

	t.Run("environment variables override the file", func(t *testing.T) {
		path := writeConfigFile(t, "storage:\n  policy: durable\n")
		t.Setenv("SAILING_STORAGE_POLICY", "best_effort")
		t.Setenv("SAILING_LOG_LEVEL", "debug")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, PolicyBestEffort, cfg.Storage.Policy)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("invalid policy is rejected", func(t *testing.T) {
		path := writeConfigFile(t, "storage:\n  policy: maybe\n")

		_, err := Load(path)

		assert.Error(t, err)
	})

	t.Run("invalid log level is rejected", func(t *testing.T) {
		path := writeConfigFile(t, "logging:\n  level: loud\n")

		_, err := Load(path)

		assert.Error(t, err)
	})

	t.Run("malformed yaml is rejected", func(t *testing.T) {
		path := writeConfigFile(t, ":\n\t-")

		_, err := Load(path)

		assert.Error(t, err)
	})
}
