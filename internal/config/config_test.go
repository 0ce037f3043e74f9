package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, lvl)
}

func TestLoad_file(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
  format: json
metrics:
  addr: ":2121"
demo:
  initial: beta
  clients: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, ":2121", cfg.Metrics.Addr)
	require.Equal(t, "beta", cfg.Demo.Initial)
	require.Equal(t, 5, cfg.Demo.Clients)
	// unset keys keep their defaults
	require.Equal(t, 4, cfg.Demo.Flips)
}

func TestLoad_env_overrides(t *testing.T) {
	path := writeFile(t, "demo:\n  clients: 5\n")
	t.Setenv("SOLO_CLIENTS", "9")
	t.Setenv("SOLO_LOG_LEVEL", "warn")
	t.Setenv("SOLO_PROCESS_ID", "toggle-1")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.Demo.Clients)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "toggle-1", cfg.Demo.ProcessID)
}

func TestLoad_errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "log: [not, a, map"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "log:\n  level: loud\n"))
	require.ErrorIs(t, err, ErrInvalidLogLevel)

	_, err = Load(writeFile(t, "log:\n  format: xml\n"))
	require.ErrorIs(t, err, ErrInvalidLogFormat)

	_, err = Load(writeFile(t, "demo:\n  clients: 0\n"))
	require.ErrorIs(t, err, ErrInvalidClients)

	_, err = Load(writeFile(t, "demo:\n  flips: -1\n"))
	require.ErrorIs(t, err, ErrInvalidFlips)

	_, err = Load(writeFile(t, "demo:\n  initial: gamma\n"))
	require.Error(t, err)

	t.Setenv("SOLO_FLIPS", "many")
	_, err = Load("")
	require.Error(t, err)
}
