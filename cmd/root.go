package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:           "advisor",
		Short:         "Student advisor assistant: routed multi-agent Q&A from the terminal",
		Long:          "advisor answers student questions about programs, admissions and financial aid. Queries are classified and dispatched to specialist agents, and answers are synthesized back into a single response. Context such as a declared major carries across turns of a session.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&flags.provider, "provider", "", "Model provider: openai, anthropic or mock (default from config)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a yaml config file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAskCmd(&flags),
		newChatCmd(&flags),
		newMetricsCmd(&flags),
	)

	return rootCmd
}
