package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".config/clipchat"

	defaultModel         = "openrouter/sonoma-sky-alpha"
	defaultPort          = 8085
	defaultHistoryDir    = ".copyq_chat_history"
	defaultScreenshotDir = ".copyq_screenshots"
)

// Config is resolved once at process start and passed by reference into the
// services that need it. APIKey may still be empty here; wiring falls back to
// the secret store before the chat command rejects a missing key.
type Config struct {
	APIKey        string
	Model         string
	Port          int
	HistoryDir    string
	ScreenshotDir string
}

func Load(cfg *viper.Viper) (*Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))

	cfg.SetDefault("model", defaultModel)
	cfg.SetDefault("port", defaultPort)
	cfg.SetDefault("history_dir", filepath.Join(homeDir, defaultHistoryDir))
	cfg.SetDefault("screenshot_dir", filepath.Join(homeDir, defaultScreenshotDir))

	_ = cfg.BindEnv("api_key", "OPENROUTER_API_KEY")
	_ = cfg.BindEnv("model", "OPENROUTER_MODEL")
	_ = cfg.BindEnv("port", "COPYQ_CHAT_PORT")
	_ = cfg.BindEnv("history_dir", "COPYQ_CHAT_HISTORY_DIR")
	_ = cfg.BindEnv("screenshot_dir", "COPYQ_CHAT_SCREENSHOT_DIR")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	historyDir, err := normalizeDir(cfg.GetString("history_dir"))
	if err != nil {
		return nil, fmt.Errorf("resolve history dir: %w", err)
	}
	screenshotDir, err := normalizeDir(cfg.GetString("screenshot_dir"))
	if err != nil {
		return nil, fmt.Errorf("resolve screenshot dir: %w", err)
	}

	return &Config{
		APIKey:        cfg.GetString("api_key"),
		Model:         cfg.GetString("model"),
		Port:          cfg.GetInt("port"),
		HistoryDir:    historyDir,
		ScreenshotDir: screenshotDir,
	}, nil
}

func normalizeDir(path string) (string, error) {
	if path == "" {
		return "", errors.New("path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.Clean(absPath), nil
}
