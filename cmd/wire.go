package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/bnema/clipchat-cli/internal/adapters/capture/screenshot"
	"github.com/bnema/clipchat-cli/internal/adapters/capture/x11"
	"github.com/bnema/clipchat-cli/internal/adapters/repo/jsonfile"
	chainstore "github.com/bnema/clipchat-cli/internal/adapters/secrets/chain"
	"github.com/bnema/clipchat-cli/internal/adapters/upload"
	"github.com/bnema/clipchat-cli/internal/application"
	"github.com/bnema/clipchat-cli/internal/config"
	"github.com/bnema/clipchat-cli/internal/ports"
)

// apiKeySecretKey is where `clipchat auth set` parks the OpenRouter key when
// it is not supplied via flag or environment.
const apiKeySecretKey = "clipchat/openrouter/api_key"

type app struct {
	cfg         *config.Config
	sessions    *application.SessionService
	capture     *application.CaptureService
	secretStore ports.SecretStore
	httpClient  *http.Client
	logger      *log.Logger
}

func wireApp() (*app, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false, Prefix: "clipchat"})
	if os.Getenv("CLIPCHAT_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, ".config", "clipchat", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	repo, err := jsonfile.NewRepository(cfg.HistoryDir)
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	httpClient := http.DefaultClient

	return &app{
		cfg:      cfg,
		sessions: application.NewSessionService(repo, ports.SystemClock{}),
		capture: application.NewCaptureService(
			x11.Sources(),
			screenshot.Capturers(),
			upload.Hosts(httpClient),
			logger,
		),
		secretStore: secretStore,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
