package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"advisormesh/core"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive advising session",
		Long:  "chat runs a read-eval loop against a single session, so context like a declared major carries across questions. Type /context to inspect what has been remembered, /metrics for counters, and /quit to leave.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()

			sessionID := core.NewID()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Student advisor ready. Ask about programs, admissions or financial aid. Type /quit to exit.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				switch line {
				case "/quit", "/exit":
					return nil
				case "/context":
					printContext(cmd, app, sessionID)
					continue
				case "/metrics":
					printMetrics(cmd, app)
					continue
				}

				resp, err := app.advisor.Ask(cmd.Context(), sessionID, line)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					continue
				}

				fmt.Fprintln(out)
				fmt.Fprintln(out, resp.Answer)
				fmt.Fprintf(out, "\n[%s | %s]\n\n", formatCategories(resp.Categories), resp.Elapsed.Round(time.Millisecond))
			}
		},
	}
}

func printContext(cmd *cobra.Command, app *app, sessionID string) {
	sess, err := app.advisor.Session(sessionID)
	if err != nil || sess == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No prior context")
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), sess.ContextSummary())
}
