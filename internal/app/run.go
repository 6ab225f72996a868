package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/amisstea/js-async-audit/internal/config"
	"github.com/amisstea/js-async-audit/internal/history"
	"github.com/amisstea/js-async-audit/internal/report"
	"github.com/amisstea/js-async-audit/internal/scanner"
)

// ErrBlockingFindings is returned by Run when the batch contains findings
// at or above the blocking severity. The CLI maps it to a non-zero exit
// code so CI pipelines fail on serious findings.
var ErrBlockingFindings = errors.New("blocking findings detected")

// Options configures a batch scan.
type Options struct {
	// Paths are the files and directories to scan.
	Paths []string

	// ConfigPath is an optional rule override file.
	ConfigPath string

	// IncludeCSV, when non-empty, restricts the run to the listed rule ids.
	IncludeCSV string

	// DisableCSV disables the listed rule ids.
	DisableCSV string

	// Format selects the report format: text, json, or markdown.
	Format string

	// Output receives the rendered report. Defaults to os.Stdout.
	Output io.Writer

	// FailOn is the severity at or above which findings block the run.
	FailOn scanner.Severity

	// Concurrency caps the number of files scanned in parallel.
	Concurrency int

	// Verbose adds suggestions and snippets to text output.
	Verbose bool

	// HistoryDir, when non-empty, records the run in the SQLite history
	// store under that directory.
	HistoryDir string
}

// Run scans every source file reachable from opts.Paths and writes a
// report. It returns ErrBlockingFindings when the batch crosses the
// FailOn threshold, and a config error before any scanning starts when
// the override file is invalid.
func Run(ctx context.Context, opts Options) error {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			slog.Error("❌ Invalid override configuration", "path", opts.ConfigPath, "error", err)
			return err
		}
		cfg = loaded
	}

	rules := buildRules(cfg, opts.IncludeCSV, opts.DisableCSV)
	if len(rules) == 0 {
		return errors.New("no rules enabled")
	}

	engineOpts := cfg.EngineOptions()
	if opts.Concurrency > 0 {
		engineOpts = append(engineOpts, scanner.WithConcurrency(opts.Concurrency))
	}
	engine := scanner.NewEngine(rules, engineOpts...)

	inputs, err := collectInputs(opts.Paths)
	if err != nil {
		return err
	}
	slog.Info("🧩 Scanning JavaScript sources", "files", len(inputs), "rules", len(rules))

	batch, err := engine.ScanAll(ctx, inputs)
	if err != nil {
		return err
	}
	for path, scanErr := range batch.Errors {
		slog.Warn("⚠️  File skipped", "file", path, "error", scanErr)
	}

	writer, err := buildWriter(opts)
	if err != nil {
		return err
	}
	if _, err := writer.Write(batch); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if opts.HistoryDir != "" {
		if err := recordHistory(ctx, opts.HistoryDir, batch); err != nil {
			// History is best-effort; never fail the scan over it.
			slog.Warn("⚠️  Failed to record scan history", "error", err)
		}
	}

	if scanner.HasBlockingFindings(batch.Reports, opts.FailOn) {
		slog.Warn("🚫 Blocking findings detected", "threshold", opts.FailOn.String())
		return ErrBlockingFindings
	}
	slog.Info("✅ Scan complete", "files", len(batch.Reports), "skipped", len(batch.Errors))
	return nil
}

func buildWriter(opts Options) (report.Writer, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	switch opts.Format {
	case "", "text":
		var textOpts []report.TextWriterOption
		if opts.Verbose {
			textOpts = append(textOpts, report.WithVerbose(true))
		}
		return report.NewTextWriter(out, textOpts...), nil
	case "json":
		return report.NewJSONWriter(out, report.WithPrettyPrint()), nil
	case "markdown":
		return report.NewMarkdownWriter(out), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", opts.Format)
	}
}

func recordHistory(ctx context.Context, dir string, batch *scanner.Batch) error {
	store, err := history.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runID, err := store.RecordRun(ctx, batch)
	if err != nil {
		return err
	}
	slog.Info("🗄️  Recorded scan history", "run_id", runID, "dir", dir)
	return nil
}
