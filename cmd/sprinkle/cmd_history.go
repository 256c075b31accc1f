package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"sprinkle/internal/config"
	"sprinkle/internal/store"
	"sprinkle/internal/tactile"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recent runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently dispatched commands",
	Long: `Lists the most recent runs, newest first: when it ran, how it was
dispatched, the prompt and the command that was produced from it.`,
	Args: cobra.NoArgs,
	RunE: showHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", store.DefaultLimit, "Number of entries to show")
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg := activeConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	hist, err := store.NewHistoryStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer hist.Close()

	entries, err := hist.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	return renderHistory(cmd.OutOrStdout(), entries)
}

func renderHistory(w io.Writer, entries []store.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No history yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tMODE\tPROMPT\tCOMMAND")
	for _, e := range entries {
		mode := e.Mode
		if e.Edited {
			mode += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format(time.DateTime),
			mode,
			e.Prompt,
			tactile.CommandLine([]string{e.Command}),
		)
	}
	return tw.Flush()
}
