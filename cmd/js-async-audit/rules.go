package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amisstea/js-async-audit/internal/scanner"
)

// NewRulesCmd creates the rules command.
func NewRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog",
		Long:  `Rules prints every rule id with its default severity and title.`,
		Run: func(cmd *cobra.Command, _ []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSEVERITY\tTITLE")
			for _, r := range scanner.DefaultRules() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID(), r.DefaultSeverity(), r.Title())
			}
			_ = w.Flush()
		},
	}
}
