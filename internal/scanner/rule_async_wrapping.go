package scanner

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/amisstea/js-async-audit/internal/jsparse"
)

// Detect return/throw of a Promise.resolve/reject call inside an async
// function. Async functions already wrap returned values and thrown errors;
// the explicit factory call is redundant.
type ruleAsyncWrapping struct{}

func NewRuleAsyncWrapping() Rule        { return &ruleAsyncWrapping{} }
func (r *ruleAsyncWrapping) ID() string { return RuleAsyncWrappingID }
func (r *ruleAsyncWrapping) Title() string {
	return "Redundant promise wrapping in async function"
}
func (r *ruleAsyncWrapping) DefaultSeverity() Severity { return SeverityMedium }
func (r *ruleAsyncWrapping) Suggestion() string {
	return "Return the plain value (or throw the plain error); async functions wrap it automatically"
}

func (r *ruleAsyncWrapping) Apply(_ context.Context, unit *jsparse.SourceUnit) ([]Finding, error) {
	var findings []Finding
	jsparse.Walk(unit.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "return_statement", "throw_statement":
		default:
			return true
		}
		value := n.NamedChild(0)
		if value == nil || !isPromiseFactoryCall(value, unit.Source) {
			return true
		}
		// The statement must belong to an async scope itself, not to a
		// nested synchronous function.
		if !inAsyncFunction(n) {
			return true
		}
		verb := "returns"
		if n.Type() == "throw_statement" {
			verb = "throws"
		}
		findings = append(findings, Finding{
			Message:  "async function " + verb + " a " + calleeChainText(value, unit.Source) + " call instead of the plain value",
			Snippet:  snippetOf(unit, n),
			Position: positionOf(unit.Path, n),
			End:      endPositionOf(unit.Path, n),
		})
		return true
	})
	return findings, nil
}

// calleeChainText renders the callee of a call expression (e.g.
// "Promise.resolve") for messages.
func calleeChainText(call *sitter.Node, src []byte) string {
	if fn := call.ChildByFieldName("function"); fn != nil {
		return fn.Content(src)
	}
	return "promise factory"
}
