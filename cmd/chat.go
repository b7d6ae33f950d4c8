package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/clipchat-cli/internal/adapters/chat/openrouter"
	"github.com/bnema/clipchat-cli/internal/adapters/notify"
	"github.com/bnema/clipchat-cli/internal/adapters/prompt"
	"github.com/bnema/clipchat-cli/internal/adapters/render/transcript"
	"github.com/bnema/clipchat-cli/internal/application"
	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

func newChatCmd(app *app) *cobra.Command {
	var apiKey string
	var model string
	var noScreenshot bool
	var noDesktopNotify bool
	var requestTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Capture the current selection and start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := resolveAPIKey(cmd, app, apiKey)
			if err != nil {
				return err
			}
			if model == "" {
				model = app.cfg.Model
			}

			notifier := notify.NewDesktop(cmd.ErrOrStderr(), !noDesktopNotify)
			renderer := transcript.NewRenderer(cmd.OutOrStdout())

			sessionID := domain.NewSessionID(time.Now())
			screenshotPath := ""
			if !noScreenshot {
				screenshotPath = filepath.Join(app.cfg.ScreenshotDir, string(sessionID)+".png")
			}

			notifier.Notify(ports.SeverityInfo, "Capturing selection and screen...")
			content, err := app.capture.Resolve(cmd.Context(), screenshotPath)
			if err != nil {
				if errors.Is(err, domain.ErrNoTextAvailable) {
					notifier.Notify(ports.SeverityError, "Nothing to chat about: no selection or clipboard text found.")
					return err
				}
				return fmt.Errorf("capture context: %w", err)
			}
			noticeDegradedCapture(notifier, content, noScreenshot)

			session, err := app.sessions.Create(cmd.Context(), sessionID, content)
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}

			completion := withSpinner(
				openrouter.NewClient(app.httpClient, envOrDefault("OPENROUTER_BASE_URL", ""), key),
				cmd.ErrOrStderr(),
			)

			chat := application.NewChatService(
				app.sessions,
				completion,
				prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout()),
				renderer,
				notifier,
				app.logger,
				model,
				requestTimeout,
			)

			return chat.Run(cmd.Context(), &session)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "OpenRouter API key (default: env, then secret store)")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier (default from config)")
	cmd.Flags().BoolVar(&noScreenshot, "no-screenshot", false, "Skip the screenshot and upload cascades")
	cmd.Flags().BoolVar(&noDesktopNotify, "no-desktop-notify", false, "Keep notices on the terminal only")
	cmd.Flags().DurationVar(&requestTimeout, "request-timeout", 0, "Per-request completion timeout (default 60s)")

	return cmd
}

// resolveAPIKey prefers the flag, then config/environment, then the secret
// store written by `clipchat auth set`.
func resolveAPIKey(cmd *cobra.Command, app *app, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if app.cfg.APIKey != "" {
		return app.cfg.APIKey, nil
	}

	stored, err := app.secretStore.Get(cmd.Context(), apiKeySecretKey)
	if err == nil && stored != "" {
		return stored, nil
	}

	return "", errors.New("no API key configured: set OPENROUTER_API_KEY, pass --api-key, or run `clipchat auth set`")
}

func noticeDegradedCapture(notifier ports.Notifier, content domain.CapturedContent, skipped bool) {
	if skipped {
		return
	}

	switch {
	case !content.HasScreenshot():
		notifier.Notify(ports.SeverityWarning, "Screenshot unavailable; continuing text-only.")
	case !content.HasScreenshotURL():
		notifier.Notify(ports.SeverityWarning, fmt.Sprintf(
			"Screenshot kept locally at %s; all upload hosts failed, so the model will not see it.",
			content.ScreenshotPath,
		))
	}
}
