package scanner

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/amisstea/js-async-audit/internal/jsparse"
)

// Detect await expressions inside loop bodies. Sequential awaits in a loop
// serialize work that is usually independent; one finding per loop.
type ruleAwaitInLoop struct{}

func NewRuleAwaitInLoop() Rule        { return &ruleAwaitInLoop{} }
func (r *ruleAwaitInLoop) ID() string { return RuleAwaitInLoopID }
func (r *ruleAwaitInLoop) Title() string {
	return "Sequential await inside loop"
}
func (r *ruleAwaitInLoop) DefaultSeverity() Severity { return SeverityMedium }
func (r *ruleAwaitInLoop) Suggestion() string {
	return "Collect the promises and await them together with Promise.all"
}

func (r *ruleAwaitInLoop) Apply(_ context.Context, unit *jsparse.SourceUnit) ([]Finding, error) {
	var findings []Finding
	jsparse.Walk(unit.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "for_statement", "for_in_statement", "while_statement", "do_statement":
		default:
			return true
		}
		// Only the body counts: an await in the loop header (or a
		// `for await ... of` stream) runs once per statement, not per turn.
		body := n.ChildByFieldName("body")
		if body == nil {
			return true
		}
		loopScope := enclosingFunction(n)
		var hit *sitter.Node
		jsparse.Walk(body, func(inner *sitter.Node) bool {
			if hit != nil {
				return false
			}
			// Nested loops report on their own; don't descend into them.
			switch inner.Type() {
			case "for_statement", "for_in_statement", "while_statement", "do_statement":
				return false
			}
			if inner.Type() == "await_expression" {
				// Awaits inside nested functions belong to their own scope.
				if enclosingFunction(inner) == loopScope {
					hit = inner
				}
			}
			return true
		})
		if hit == nil {
			return true
		}
		findings = append(findings, Finding{
			Message:  "await inside loop body serializes independent work",
			Snippet:  snippetOf(unit, hit),
			Position: positionOf(unit.Path, hit),
			End:      endPositionOf(unit.Path, hit),
		})
		return true
	})
	return findings, nil
}
