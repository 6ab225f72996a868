package scanner

import (
	"context"

	"github.com/amisstea/js-async-audit/internal/jsparse"
)

// Detect reserved lifecycle method declarations inside flagged class
// components. Lifecycle hooks only exist on class components, so the rule
// fires alongside class-component on the same declaration.
type ruleLifecycleMethod struct{}

func NewRuleLifecycleMethod() Rule        { return &ruleLifecycleMethod{} }
func (r *ruleLifecycleMethod) ID() string { return RuleLifecycleMethodID }
func (r *ruleLifecycleMethod) Title() string {
	return "Reserved lifecycle method in class component"
}
func (r *ruleLifecycleMethod) DefaultSeverity() Severity { return SeverityCritical }
func (r *ruleLifecycleMethod) Suggestion() string {
	return "Move the logic into an effect hook in a function component"
}

func (r *ruleLifecycleMethod) Apply(_ context.Context, unit *jsparse.SourceUnit) ([]Finding, error) {
	var findings []Finding
	for _, d := range unit.Decls {
		if d.Kind != jsparse.KindClass || !isComponentBase(d.Superclass) {
			continue
		}
		for _, m := range d.Methods {
			if !isLifecycleMethod(m.Name) {
				continue
			}
			findings = append(findings, Finding{
				Message: "lifecycle method " + m.Name + " declared on class component " + d.Name,
				Snippet: snippetOf(unit, m.Node),
				Position: Position{
					Filename: unit.Path,
					Line:     m.Span.StartLine,
					Column:   m.Span.StartColumn,
				},
				End: Position{
					Filename: unit.Path,
					Line:     m.Span.EndLine,
					Column:   m.Span.EndColumn,
				},
			})
		}
	}
	return findings, nil
}
