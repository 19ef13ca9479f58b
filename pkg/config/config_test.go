package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSystemConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultSystemConfig()

	require.Equal(t, 10, cfg.MaxToolRounds)
	require.Equal(t, 10000, cfg.PluginTimeoutMs)
	require.Equal(t, 8000, cfg.HTTPPort)
	require.True(t, cfg.EnableTools)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadSystemConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg := LoadSystemConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Equal(t, DefaultSystemConfig(), cfg)
}

func TestLoadSystemConfigCorruptFileUsesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "system.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	cfg := LoadSystemConfig(path)
	require.Equal(t, DefaultSystemConfig(), cfg)
}

func TestLoadSystemConfigOverrides(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "system.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_tool_rounds": 5, "log_level": "debug"}`), 0o644))

	cfg := LoadSystemConfig(path)
	require.Equal(t, 5, cfg.MaxToolRounds)
	require.Equal(t, "debug", cfg.LogLevel)
	// Untouched fields keep their defaults
	require.Equal(t, 8000, cfg.HTTPPort)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	var cfg Config
	require.Error(t, cfg.Validate())

	cfg.LLM = []byte(`[{"type": "ollama"}]`)
	require.NoError(t, cfg.Validate())
}
