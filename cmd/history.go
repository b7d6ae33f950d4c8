package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bnema/clipchat-cli/internal/adapters/render/transcript"
	"github.com/bnema/clipchat-cli/internal/domain"
)

func newHistoryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved session transcripts",
	}

	cmd.AddCommand(newHistoryListCmd(app), newHistoryShowCmd(app))

	return cmd
}

func newHistoryListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := app.sessions.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, lipgloss.NewStyle().Faint(true).Render("No saved sessions."))
				return nil
			}

			idStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
			metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

			for _, session := range sessions {
				screenshot := "text-only"
				if session.Captured.HasScreenshotURL() {
					screenshot = "screenshot uploaded"
				} else if session.Captured.HasScreenshot() {
					screenshot = "screenshot local"
				}

				fmt.Fprintf(out, "%s  %s\n",
					idStyle.Render(string(session.ID)),
					metaStyle.Render(fmt.Sprintf("%s | %d messages | %s",
						session.CreatedAt.Local().Format(time.DateTime),
						len(session.Messages),
						screenshot,
					)),
				)
			}

			return nil
		},
	}
}

func newHistoryShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Render one saved transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.sessions.Load(cmd.Context(), domain.SessionID(args[0]))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), transcript.Render(session))
			return nil
		},
	}
}
