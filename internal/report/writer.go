// Package report renders batch scan results in text, JSON, and Markdown.
// Writers share one interface so the CLI can fan a single batch out to
// several destinations (terminal plus a report file) in one pass.
package report

import (
	"io"
	"sort"

	"github.com/amisstea/js-async-audit/internal/scanner"
)

// Writer outputs a completed batch in some format.
type Writer interface {
	// Write renders the batch to the configured destination and returns
	// the number of bytes written.
	Write(batch *scanner.Batch) (int, error)
}

// MultiWriter fans a batch out to several Writers, stopping on the first
// error. It exists because our Writer handles batches, not raw bytes, so
// io.MultiWriter does not apply.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the batch through every configured writer.
func (m *MultiWriter) Write(batch *scanner.Batch) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(batch)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the shared output destination.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// sortedPaths returns the batch's report paths in lexical order so every
// writer emits files deterministically.
func sortedPaths(batch *scanner.Batch) []string {
	paths := make([]string, 0, len(batch.Reports))
	for p := range batch.Reports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// sortedErrorPaths returns the paths that failed to scan, in lexical order.
func sortedErrorPaths(batch *scanner.Batch) []string {
	paths := make([]string, 0, len(batch.Errors))
	for p := range batch.Errors {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// totals sums the per-report severity counts across the batch.
func totals(batch *scanner.Batch) map[scanner.Severity]int {
	sums := map[scanner.Severity]int{}
	for _, rep := range batch.Reports {
		for sev, n := range rep.Counts {
			sums[sev] += n
		}
	}
	return sums
}
