package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newMetricsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print pipeline counters as JSON",
		Long:  "metrics prints the in-process pipeline counters (queries, cache hits, classifications, agent invocations and failures). Counters are per-process; inside a chat session use /metrics to see live values.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			printMetrics(cmd, app)
			return nil
		},
	}
}

func printMetrics(cmd *cobra.Command, app *app) {
	snap := app.metrics.Snapshot()
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
}
