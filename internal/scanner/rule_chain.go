package scanner

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/amisstea/js-async-audit/internal/jsparse"
)

// Detect .then/.catch/.finally continuation chains where sequential await
// expressions are available, i.e. inside async functions. Chains in purely
// synchronous, non-awaitable contexts are exempt. A chain produces exactly
// one finding regardless of how many continuations it stacks.
type ruleChain struct{}

func NewRuleChain() Rule        { return &ruleChain{} }
func (r *ruleChain) ID() string { return RuleChainID }
func (r *ruleChain) Title() string {
	return "Continuation chain inside async function"
}
func (r *ruleChain) DefaultSeverity() Severity { return SeverityHigh }
func (r *ruleChain) Suggestion() string {
	return "Rewrite the chain as sequential await expressions with try/catch"
}

func (r *ruleChain) Apply(_ context.Context, unit *jsparse.SourceUnit) ([]Finding, error) {
	var findings []Finding
	jsparse.Walk(unit.Root, func(n *sitter.Node) bool {
		prop := continuationCallee(n, unit.Source)
		if prop == nil {
			return true
		}
		// Only the outermost continuation of a chain reports; inner
		// .then calls are part of the same finding.
		if isInnerContinuation(n, unit.Source) {
			return true
		}
		if !inAsyncFunction(n) {
			return true
		}
		findings = append(findings, Finding{
			Message:  "promise chain (." + prop.Content(unit.Source) + ") inside an async function",
			Snippet:  snippetOf(unit, n),
			Position: positionOf(unit.Path, n),
			End:      endPositionOf(unit.Path, n),
		})
		return true
	})
	return findings, nil
}

// isInnerContinuation reports whether call is the receiver of another
// continuation invocation, as in getData().then(...).catch(...): the .then
// call is inner, the .catch call is the chain's outermost node.
func isInnerContinuation(call *sitter.Node, src []byte) bool {
	parent := call.Parent()
	if parent == nil || parent.Type() != "member_expression" {
		return false
	}
	prop := parent.ChildByFieldName("property")
	if prop == nil || !isContinuationMethod(prop.Content(src)) {
		return false
	}
	grand := parent.Parent()
	return grand != nil && grand.Type() == "call_expression"
}
