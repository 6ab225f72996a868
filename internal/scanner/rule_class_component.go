package scanner

import (
	"context"

	"github.com/amisstea/js-async-audit/internal/jsparse"
)

// Detect class declarations extending a known UI-component base. Class
// components carry lifecycle and state machinery the guide replaces with
// function components and hooks.
type ruleClassComponent struct{}

func NewRuleClassComponent() Rule        { return &ruleClassComponent{} }
func (r *ruleClassComponent) ID() string { return RuleClassComponentID }
func (r *ruleClassComponent) Title() string {
	return "Class-based component declaration"
}
func (r *ruleClassComponent) DefaultSeverity() Severity { return SeverityCritical }
func (r *ruleClassComponent) Suggestion() string {
	return "Rewrite as a function component with hooks"
}

func (r *ruleClassComponent) Apply(_ context.Context, unit *jsparse.SourceUnit) ([]Finding, error) {
	var findings []Finding
	for _, d := range unit.Decls {
		if d.Kind != jsparse.KindClass || !isComponentBase(d.Superclass) {
			continue
		}
		findings = append(findings, Finding{
			Message: "class " + d.Name + " extends component base " + d.Superclass,
			Snippet: snippetOf(unit, d.Node),
			Position: Position{
				Filename: unit.Path,
				Line:     d.Span.StartLine,
				Column:   d.Span.StartColumn,
			},
			End: Position{
				Filename: unit.Path,
				Line:     d.Span.EndLine,
				Column:   d.Span.EndColumn,
			},
		})
	}
	return findings, nil
}
