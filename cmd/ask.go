package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"advisormesh/core"
)

func newAskCmd(flags *rootFlags) *cobra.Command {
	var sessionID string
	var showSources bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := wireApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()

			if sessionID == "" {
				sessionID = core.NewID()
			}

			resp, err := app.advisor.Ask(cmd.Context(), sessionID, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Answer)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "categories: %s\n", formatCategories(resp.Categories))
			fmt.Fprintf(out, "latency: %s\n", resp.Elapsed.Round(time.Millisecond))
			if showSources && len(resp.Sources) > 0 {
				fmt.Fprintf(out, "sources: %s\n", strings.Join(resp.Sources, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID to carry context across invocations")
	cmd.Flags().BoolVar(&showSources, "sources", false, "Print the catalog sources behind the answer")

	return cmd
}

func formatCategories(categories []core.Category) string {
	if len(categories) == 0 {
		return "none"
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
