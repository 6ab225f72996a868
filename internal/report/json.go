package report

import (
	"encoding/json"
	"io"

	"github.com/amisstea/js-async-audit/internal/scanner"
)

// JSONWriter renders the batch as a single JSON document for tool
// integration. Files are emitted as a sorted array rather than a map so
// the byte output is stable across runs.
type JSONWriter struct {
	baseWriter

	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonDocument is the top-level JSON shape.
type jsonDocument struct {
	Files    []jsonFile     `json:"files"`
	Failures []jsonFailure  `json:"failures,omitempty"`
	Summary  map[string]int `json:"summary"`
	Blocking bool           `json:"blocking"`
}

type jsonFile struct {
	Path     string            `json:"path"`
	Findings []scanner.Finding `json:"findings"`
	Summary  map[string]int    `json:"summary"`
}

type jsonFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// severityCounts converts a Severity-keyed count map to string keys for
// JSON output.
func severityCounts(counts map[scanner.Severity]int) map[string]int {
	out := map[string]int{}
	for sev, n := range counts {
		out[sev.String()] = n
	}
	return out
}

// Write renders the batch as one JSON document.
func (w *JSONWriter) Write(batch *scanner.Batch) (int, error) {
	doc := jsonDocument{
		Files:    []jsonFile{},
		Summary:  severityCounts(totals(batch)),
		Blocking: scanner.HasBlockingFindings(batch.Reports, scanner.SeverityHigh),
	}

	for _, path := range sortedPaths(batch) {
		rep := batch.Reports[path]
		findings := rep.Findings
		if findings == nil {
			findings = []scanner.Finding{}
		}
		doc.Files = append(doc.Files, jsonFile{
			Path:     path,
			Findings: findings,
			Summary:  rep.Summary(),
		})
	}
	for _, path := range sortedErrorPaths(batch) {
		doc.Failures = append(doc.Failures, jsonFailure{
			Path:  path,
			Error: batch.Errors[path].Error(),
		})
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
