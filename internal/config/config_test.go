package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := "map_model: qwen2.5-coder\ntop_k: 5\noutput_dir: maps\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "qwen2.5-coder", cfg.MapModel)
	require.Equal(t, 5, cfg.TopK)
	require.Equal(t, "maps", cfg.OutputDir)
	// Untouched keys keep their defaults.
	require.Equal(t, Default().ChatModel, cfg.ChatModel)
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("chat_model: llama3\n"), 0644))

	t.Setenv("SILICE_CHAT_MODEL", "mistral")
	t.Setenv("SILICE_TOP_K", "7")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "mistral", cfg.ChatModel)
	require.Equal(t, 7, cfg.TopK)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("top_k: [1, 2\n"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoadSanitizesNonPositiveNumbers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("top_k: 0\nretries: -2\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, Default().TopK, cfg.TopK)
	require.Equal(t, Default().Retries, cfg.Retries)
}
