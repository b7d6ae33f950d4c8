package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "clipchat",
		Short:         "clipchat: chat with a model about your current selection and screen",
		Long:          "clipchat captures the text you have selected (plus a best-effort screenshot), seeds a conversation with it, and drives an interactive chat against the OpenRouter completion API. Every session is persisted as a JSON transcript for later inspection.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(app),
		newHistoryCmd(app),
		newAuthCmd(app),
	)

	return rootCmd
}
