// Package main provides the entry point for the js-async-audit CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amisstea/js-async-audit/internal/app"
)

// NewRootCmd creates the root command for js-async-audit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "js-async-audit",
		Short: "Static analyzer for JavaScript async anti-patterns",
		Long: `js-async-audit scans JavaScript and TypeScript sources for async
anti-patterns: redundant Promise.resolve/reject wrapping inside async
functions, .then/.catch chains where await would do, legacy class
components, and data fetching driven by lifecycle methods.

Findings at HIGH severity or above make the scan exit non-zero, so the
tool can gate CI pipelines.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewRulesCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. Blocking findings exit with code 2 so
// CI can tell them apart from operational failures (code 1).
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if errors.Is(err, app.ErrBlockingFindings) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
