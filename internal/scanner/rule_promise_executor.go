package scanner

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/amisstea/js-async-audit/internal/jsparse"
)

// Detect `new Promise(...)` executors constructed inside async functions,
// where await expressions make the manual executor unnecessary. Promise
// construction in synchronous code (wrapping callback APIs) is exempt.
type rulePromiseExecutor struct{}

func NewRulePromiseExecutor() Rule        { return &rulePromiseExecutor{} }
func (r *rulePromiseExecutor) ID() string { return RulePromiseExecutorID }
func (r *rulePromiseExecutor) Title() string {
	return "Manual promise executor in async function"
}
func (r *rulePromiseExecutor) DefaultSeverity() Severity { return SeverityMedium }
func (r *rulePromiseExecutor) Suggestion() string {
	return "Use await directly; reserve new Promise for wrapping callback APIs in sync code"
}

func (r *rulePromiseExecutor) Apply(_ context.Context, unit *jsparse.SourceUnit) ([]Finding, error) {
	var findings []Finding
	jsparse.Walk(unit.Root, func(n *sitter.Node) bool {
		if n.Type() != "new_expression" {
			return true
		}
		ctor := n.ChildByFieldName("constructor")
		if ctor == nil || ctor.Type() != "identifier" || ctor.Content(unit.Source) != "Promise" {
			return true
		}
		if !inAsyncFunction(n) {
			return true
		}
		findings = append(findings, Finding{
			Message:  "new Promise executor inside an async function",
			Snippet:  snippetOf(unit, n),
			Position: positionOf(unit.Path, n),
			End:      endPositionOf(unit.Path, n),
		})
		return true
	})
	return findings, nil
}
