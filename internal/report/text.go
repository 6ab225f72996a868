package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/amisstea/js-async-audit/internal/scanner"
)

// Severity color functions for terminal output.
var (
	criticalColor = color.New(color.BgRed, color.FgWhite, color.Bold).SprintFunc()
	highColor     = color.New(color.FgRed, color.Bold).SprintFunc()
	mediumColor   = color.New(color.FgYellow, color.Bold).SprintFunc()
	lowColor      = color.New(color.FgBlue, color.Bold).SprintFunc()
	internalColor = color.New(color.FgMagenta).SprintFunc()
	pathColor     = color.New(color.Bold).SprintFunc()
)

func colorize(sev scanner.Severity) string {
	switch sev {
	case scanner.SeverityCritical:
		return criticalColor(sev.String())
	case scanner.SeverityHigh:
		return highColor(sev.String())
	case scanner.SeverityMedium:
		return mediumColor(sev.String())
	case scanner.SeverityLow:
		return lowColor(sev.String())
	default:
		return internalColor(sev.String())
	}
}

// TextWriter renders one line per finding for terminal display, in the
// compiler-style <path>:<line>:<col> format editors can jump to.
type TextWriter struct {
	baseWriter

	// verbose adds the fix suggestion and source snippet under each finding.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose adds suggestions and snippets to each finding.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the batch as plain text. Files come out in lexical path
// order; findings keep the engine's position order within each file.
func (w *TextWriter) Write(batch *scanner.Batch) (int, error) {
	var sb strings.Builder

	for _, path := range sortedPaths(batch) {
		rep := batch.Reports[path]
		for _, f := range rep.Findings {
			fmt.Fprintf(&sb, "%s:%d:%d [%s] %s: %s\n",
				pathColor(path), f.Position.Line, f.Position.Column,
				colorize(f.Severity), f.RuleID, f.Message)
			if w.verbose {
				if f.Suggestion != "" {
					fmt.Fprintf(&sb, "    fix: %s\n", f.Suggestion)
				}
				if f.Snippet != "" {
					fmt.Fprintf(&sb, "    > %s\n", f.Snippet)
				}
			}
		}
	}

	for _, path := range sortedErrorPaths(batch) {
		fmt.Fprintf(&sb, "%s: %v\n", pathColor(path), batch.Errors[path])
	}

	w.writeSummary(&sb, batch)
	return w.output.Write([]byte(sb.String()))
}

func (w *TextWriter) writeSummary(sb *strings.Builder, batch *scanner.Batch) {
	sums := totals(batch)
	total := 0
	for _, n := range sums {
		total += n
	}

	fmt.Fprintf(sb, "\n%d finding(s) in %d file(s)", total, len(batch.Reports))
	if len(batch.Errors) > 0 {
		fmt.Fprintf(sb, ", %d file(s) failed to parse", len(batch.Errors))
	}
	sb.WriteString("\n")

	for _, sev := range []scanner.Severity{
		scanner.SeverityCritical,
		scanner.SeverityHigh,
		scanner.SeverityMedium,
		scanner.SeverityLow,
		scanner.SeverityInternal,
	} {
		if n := sums[sev]; n > 0 {
			fmt.Fprintf(sb, "  %s: %d\n", colorize(sev), n)
		}
	}
}
