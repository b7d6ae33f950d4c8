package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "openrouter/sonoma-sky-alpha", cfg.Model)
	assert.Equal(t, 8085, cfg.Port)
	assert.Equal(t, filepath.Join(home, ".copyq_chat_history"), cfg.HistoryDir)
	assert.Equal(t, filepath.Join(home, ".copyq_screenshots"), cfg.ScreenshotDir)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENROUTER_API_KEY", "sk-or-v1-env")
	t.Setenv("OPENROUTER_MODEL", "openrouter/other-model")
	t.Setenv("COPYQ_CHAT_PORT", "9090")
	t.Setenv("COPYQ_CHAT_HISTORY_DIR", filepath.Join(home, "history"))
	t.Setenv("COPYQ_CHAT_SCREENSHOT_DIR", filepath.Join(home, "shots"))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "sk-or-v1-env", cfg.APIKey)
	assert.Equal(t, "openrouter/other-model", cfg.Model)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, filepath.Join(home, "history"), cfg.HistoryDir)
	assert.Equal(t, filepath.Join(home, "shots"), cfg.ScreenshotDir)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "clipchat")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(
		"model = \"openrouter/from-file\"\nport = 8000\n",
	), 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "openrouter/from-file", cfg.Model)
	assert.Equal(t, 8000, cfg.Port)
}

func TestLoadRejectsBrokenConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "clipchat")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("model = [broken"), 0o600))

	_, err := Load(viper.New())
	require.Error(t, err)
}

func TestEnvironmentBeatsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENROUTER_MODEL", "openrouter/from-env")

	dir := filepath.Join(home, ".config", "clipchat")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(
		"model = \"openrouter/from-file\"\n",
	), 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "openrouter/from-env", cfg.Model)
}
