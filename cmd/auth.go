package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored OpenRouter API key",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthStatusCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the API key in the secret store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Put(cmd.Context(), apiKeySecretKey, apiKey); err != nil {
				return fmt.Errorf("store API key: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "API key stored.")
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "OpenRouter API key")
	_ = cmd.MarkFlagRequired("api-key")

	return cmd
}

func newAuthStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report where the API key will come from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if app.cfg.APIKey != "" {
				fmt.Fprintln(out, "API key: configured via environment or config file")
				return nil
			}

			if value, err := app.secretStore.Get(cmd.Context(), apiKeySecretKey); err == nil && value != "" {
				fmt.Fprintln(out, "API key: configured via secret store")
				return nil
			}

			fmt.Fprintln(out, "API key: not configured (set OPENROUTER_API_KEY or run `clipchat auth set`)")
			return nil
		},
	}
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Delete(cmd.Context(), apiKeySecretKey); err != nil {
				return fmt.Errorf("delete API key: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
			return nil
		},
	}
}
