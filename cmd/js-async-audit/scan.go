package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amisstea/js-async-audit/internal/app"
	"github.com/amisstea/js-async-audit/internal/history"
	"github.com/amisstea/js-async-audit/internal/scanner"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <path>...",
		Short: "Scan JavaScript/TypeScript sources for async anti-patterns",
		Long: `Scan parses every JavaScript and TypeScript file reachable from the
given paths and applies the rule catalog to each one.

Files that fail to parse are reported and skipped; they never abort the
batch. An invalid override configuration aborts the run before any file
is scanned.

Examples:
  # Scan a source tree
  js-async-audit scan ./src

  # Scan specific files with JSON output
  js-async-audit scan --format json app.js components/UserList.jsx

  # Only run selected rules
  js-async-audit scan --rules chain,async-wrapping ./src

  # Fail CI on medium findings too
  js-async-audit scan --fail-on medium ./src

Override configuration (audit.yaml) example:
  rules:
    chain:
      severity: critical
    await-in-loop:
      enabled: false`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("config", "c", "", "Rule override configuration file")
	cmd.Flags().StringP("format", "f", "text", "Report format: text, json, or markdown")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().String("rules", "", "Comma-separated rule ids to run (default: all)")
	cmd.Flags().String("disable", "", "Comma-separated rule ids to disable")
	cmd.Flags().String("fail-on", "high", "Severity that makes the scan exit non-zero: low, medium, high, or critical")
	cmd.Flags().IntP("concurrency", "j", 0, "Maximum files scanned in parallel (default: engine-chosen)")
	cmd.Flags().Bool("history", false, "Record the run in the local scan history database")
	cmd.Flags().String("history-dir", "", "History database directory (default: XDG data home)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	opts, closer, err := buildOptions(cmd, args)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	setupLogger(getVerboseFlag(cmd))

	// Cancel the batch on interrupt so partial work stops promptly.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return app.Run(ctx, opts)
}

// buildOptions creates app.Options from cobra command flags. The returned
// closer, when non-nil, must run after the report is written.
func buildOptions(cmd *cobra.Command, args []string) (app.Options, func(), error) {
	var opts app.Options
	opts.Paths = args

	var err error
	if opts.ConfigPath, err = cmd.Flags().GetString("config"); err != nil {
		return opts, nil, err
	}
	if opts.Format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, nil, err
	}
	if opts.IncludeCSV, err = cmd.Flags().GetString("rules"); err != nil {
		return opts, nil, err
	}
	if opts.DisableCSV, err = cmd.Flags().GetString("disable"); err != nil {
		return opts, nil, err
	}
	if opts.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return opts, nil, err
	}
	opts.Verbose = getVerboseFlag(cmd)

	failOn, err := cmd.Flags().GetString("fail-on")
	if err != nil {
		return opts, nil, err
	}
	if opts.FailOn, err = scanner.ParseSeverity(failOn); err != nil {
		return opts, nil, fmt.Errorf("--fail-on: %w", err)
	}

	recordHistory, err := cmd.Flags().GetBool("history")
	if err != nil {
		return opts, nil, err
	}
	if recordHistory {
		if opts.HistoryDir, err = cmd.Flags().GetString("history-dir"); err != nil {
			return opts, nil, err
		}
		if opts.HistoryDir == "" {
			opts.HistoryDir = history.DefaultDir()
		}
	}

	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return opts, nil, err
	}
	if outPath == "" {
		opts.Output = cmd.OutOrStdout()
		return opts, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return opts, nil, fmt.Errorf("creating report directory: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return opts, nil, fmt.Errorf("creating report file: %w", err)
	}
	opts.Output = f
	return opts, func() { _ = f.Close() }, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger installs a structured logger based on verbosity.
func setupLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
