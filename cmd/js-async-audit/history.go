package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amisstea/js-async-audit/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent recorded scan runs",
		Long: `History lists runs recorded with scan --history, newest first,
with per-severity finding counts.`,
		RunE: runHistoryCmd,
	}
	cmd.Flags().String("history-dir", "", "History database directory (default: XDG data home)")
	cmd.Flags().IntP("limit", "n", 10, "Maximum number of runs to show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return err
	}
	if dir == "" {
		dir = history.DefaultDir()
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	store, err := history.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSCANNED AT\tFILES\tFAILED\tCRITICAL\tHIGH\tMEDIUM\tLOW\tBLOCKING")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%t\n",
			r.ID, r.ScannedAt.Format("2006-01-02 15:04:05"),
			r.FilesScanned, r.FilesFailed,
			r.Critical, r.High, r.Medium, r.Low, r.Blocking)
	}
	return w.Flush()
}
