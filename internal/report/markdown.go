package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/amisstea/js-async-audit/internal/scanner"
)

// MarkdownWriter renders the batch as a Markdown document suitable for CI
// job summaries and pull request comments.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the batch as Markdown.
func (w *MarkdownWriter) Write(batch *scanner.Batch) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Async Audit Report")
	w.writeSummary(md, batch)
	w.writeFindings(md, batch)
	w.writeFailures(md, batch)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, batch *scanner.Batch) {
	sums := totals(batch)
	total := 0
	for _, n := range sums {
		total += n
	}

	md.H2("Summary")
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Findings"},
		Rows: [][]string{
			{"CRITICAL", strconv.Itoa(sums[scanner.SeverityCritical])},
			{"HIGH", strconv.Itoa(sums[scanner.SeverityHigh])},
			{"MEDIUM", strconv.Itoa(sums[scanner.SeverityMedium])},
			{"LOW", strconv.Itoa(sums[scanner.SeverityLow])},
			{"Total", strconv.Itoa(total)},
		},
	})

	if scanner.HasBlockingFindings(batch.Reports, scanner.SeverityHigh) {
		md.Warning("Findings at HIGH severity or above were detected.")
	}
}

func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, batch *scanner.Batch) {
	md.H2("Findings")

	rows := [][]string{}
	for _, path := range sortedPaths(batch) {
		rep := batch.Reports[path]
		for _, f := range rep.Findings {
			rows = append(rows, []string{
				fmt.Sprintf("`%s:%d:%d`", path, f.Position.Line, f.Position.Column),
				f.Severity.String(),
				f.RuleID,
				f.Message,
			})
		}
	}

	if len(rows) == 0 {
		md.PlainText("No findings.")
		return
	}
	md.Table(markdown.TableSet{
		Header: []string{"Location", "Severity", "Rule", "Message"},
		Rows:   rows,
	})
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, batch *scanner.Batch) {
	if len(batch.Errors) == 0 {
		return
	}

	md.H2("Files that failed to scan")
	rows := [][]string{}
	for _, path := range sortedErrorPaths(batch) {
		rows = append(rows, []string{"`" + path + "`", batch.Errors[path].Error()})
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Error"},
		Rows:   rows,
	})
}
