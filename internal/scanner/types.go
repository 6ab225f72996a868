package scanner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity indicates how severe a finding is. SeverityInternal is reserved
// for rule evaluation failures so they stay visible without blocking a CI
// gate.
type Severity int

const (
	SeverityInternal Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInternal:
		return "INTERNAL"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a case-insensitive severity name. Internal is not
// accepted: it cannot be assigned to a rule.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalJSON emits the severity name so machine-readable reports stay
// stable across reorderings of the enum.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Position indicates where in source code a finding occurred. Line and
// Column are 1-based.
type Position struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Finding is a single static analysis finding. Findings are immutable and
// owned by the Report that produced them.
type Finding struct {
	RuleID     string   `json:"ruleId"`
	Title      string   `json:"title"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Snippet    string   `json:"snippet,omitempty"`
	Position   Position `json:"position"`
	End        Position `json:"end"`
}

// Report holds the ordered findings for one input file plus aggregate
// counts per severity. It is created per scan and handed to a caller
// supplied sink; the scanner itself never persists it.
type Report struct {
	Path     string           `json:"path"`
	Findings []Finding        `json:"findings"`
	Counts   map[Severity]int `json:"-"`
}

// Summary returns per-severity counts keyed by severity name, for
// serialization.
func (r *Report) Summary() map[string]int {
	out := make(map[string]int, len(r.Counts))
	for sev, n := range r.Counts {
		out[sev.String()] = n
	}
	return out
}

// HasBlocking reports whether any finding meets or exceeds min.
func (r *Report) HasBlocking(min Severity) bool {
	for _, f := range r.Findings {
		if f.Severity >= min {
			return true
		}
	}
	return false
}

// HasBlockingFindings reports whether any finding across all reports meets
// or exceeds min. Callers (CI gates) decide what to do with the answer; the
// scanner makes no process-exit decisions.
func HasBlockingFindings(reports map[string]*Report, min Severity) bool {
	for _, r := range reports {
		if r.HasBlocking(min) {
			return true
		}
	}
	return false
}
