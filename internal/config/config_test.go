package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, "file", cfg.Storage.Backend)
	require.Equal(t, "./data", cfg.Storage.Path)
	require.Equal(t, "sqlsandbox", cfg.Storage.Namespace)
	require.Equal(t, 100, cfg.Engine.HistoryLimit)
	require.Equal(t, "sample_db", cfg.Engine.DefaultDatabase)
	require.Equal(t, 4444, cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.Empty(t, cfg.Log.SeqURL)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqlsandbox.yaml")
	content := `
storage:
  backend: sqlite
  path: /var/lib/sqlsandbox
engine:
  history_limit: 25
server:
  port: 5555
log:
  level: debug
  seq_url: http://localhost:5341
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, "/var/lib/sqlsandbox", cfg.Storage.Path)
	require.Equal(t, 25, cfg.Engine.HistoryLimit)
	require.Equal(t, 5555, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "http://localhost:5341", cfg.Log.SeqURL)
	// untouched keys keep their defaults
	require.Equal(t, "sample_db", cfg.Engine.DefaultDatabase)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SQLSANDBOX_STORAGE_BACKEND", "memory")
	t.Setenv("SQLSANDBOX_SERVER_PORT", "6000")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, "memory", cfg.Storage.Backend)
	require.Equal(t, 6000, cfg.Server.Port)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  history_limit: -1\n"), 0o644))
	_, err = LoadConfig(path)
	require.ErrorContains(t, err, "history_limit")
}
