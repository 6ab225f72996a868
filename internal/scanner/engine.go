package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/amisstea/js-async-audit/internal/jsparse"
)

// Rule defines a static analysis rule over a parsed source unit. Rules are
// immutable once registered; matchers must not mutate the unit.
type Rule interface {
	ID() string
	Title() string
	DefaultSeverity() Severity
	Suggestion() string
	Apply(ctx context.Context, unit *jsparse.SourceUnit) ([]Finding, error)
}

// Engine coordinates parsing inputs and executing rules. A single engine is
// safe for concurrent scans: the rule set and severity table are fixed at
// construction time.
type Engine struct {
	rules      []Rule
	severities map[string]Severity
	limit      int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSeverity overrides the effective severity of a rule.
func WithSeverity(ruleID string, sev Severity) EngineOption {
	return func(e *Engine) { e.severities[ruleID] = sev }
}

// WithConcurrency caps the number of files scanned in parallel by ScanAll.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

func NewEngine(rules []Rule, opts ...EngineOption) *Engine {
	e := &Engine{
		rules:      append([]Rule{}, rules...),
		severities: make(map[string]Severity),
		limit:      8,
	}
	for _, r := range e.rules {
		e.severities[r.ID()] = r.DefaultSeverity()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the registered rules in registration order.
func (e *Engine) Rules() []Rule { return append([]Rule{}, e.rules...) }

// Scan evaluates every rule against the unit and returns the ordered
// report. Scanning is a pure function of (unit, rules): no shared state is
// touched and identical inputs yield identical reports.
func (e *Engine) Scan(ctx context.Context, unit *jsparse.SourceUnit) *Report {
	slog.Debug("🧩 scanning file", "path", unit.Path, "lang", unit.Lang.String(), "decls", len(unit.Decls))
	var findings []Finding
	for _, r := range e.rules {
		fs, err := e.applyRule(ctx, r, unit)
		if err != nil {
			// Fault isolation: one bad rule never aborts the scan.
			findings = append(findings, Finding{
				RuleID:   RuleEvaluationErrorID,
				Title:    "rule evaluation failed",
				Severity: SeverityInternal,
				Message:  fmt.Sprintf("rule %s: %v", r.ID(), err),
				Position: Position{Filename: unit.Path, Line: 1, Column: 1},
				End:      Position{Filename: unit.Path, Line: 1, Column: 1},
			})
			continue
		}
		sev := e.severities[r.ID()]
		for i := range fs {
			fs[i].RuleID = r.ID()
			fs[i].Title = r.Title()
			fs[i].Suggestion = r.Suggestion()
			fs[i].Severity = sev
		}
		findings = append(findings, fs...)
	}
	// Deterministic order: ascending file location, rule ID breaks ties.
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Position.Line != b.Position.Line {
			return a.Position.Line < b.Position.Line
		}
		if a.Position.Column != b.Position.Column {
			return a.Position.Column < b.Position.Column
		}
		return a.RuleID < b.RuleID
	})
	report := &Report{Path: unit.Path, Findings: findings, Counts: make(map[Severity]int)}
	for _, f := range findings {
		report.Counts[f.Severity]++
	}
	return report
}

// applyRule runs one rule matcher, converting panics into errors so a
// misbehaving matcher degrades to a RuleEvaluationError finding.
func (e *Engine) applyRule(ctx context.Context, r Rule, unit *jsparse.SourceUnit) (fs []Finding, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fs, err = nil, fmt.Errorf("panic: %v", rec)
		}
	}()
	slog.Debug("▶️  applying rule", "id", r.ID(), "path", unit.Path)
	return r.Apply(ctx, unit)
}

// ScanSource parses src and scans it. The parse tree is released before
// returning; findings carry copies of everything they need.
func (e *Engine) ScanSource(ctx context.Context, path string, src []byte) (*Report, error) {
	unit, err := jsparse.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	defer unit.Close()
	return e.Scan(ctx, unit), nil
}

// Input is one (path, source) pair for a batch scan.
type Input struct {
	Path   string
	Source []byte
}

// Batch is the outcome of a ScanAll call. Reports and Errors are keyed by
// input path; a path appears in exactly one of the two maps.
type Batch struct {
	Reports map[string]*Report
	Errors  map[string]error
}

// ScanAll scans the inputs concurrently. Each file reads only the shared
// immutable rule set and produces an independent report, so no locking is
// needed beyond collecting results. Per-file parse failures are recorded in
// Batch.Errors and never abort sibling scans. Cancelling ctx stops
// dispatching unstarted files; in-flight scans run to completion.
func (e *Engine) ScanAll(ctx context.Context, inputs []Input) (*Batch, error) {
	batch := &Batch{
		Reports: make(map[string]*Report, len(inputs)),
		Errors:  make(map[string]error),
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for _, in := range inputs {
		in := in
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			report, err := e.ScanSource(gctx, in.Path, in.Source)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				batch.Errors[in.Path] = err
				return nil
			}
			batch.Reports[in.Path] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return batch, err
	}
	return batch, ctx.Err()
}
