package scanner

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/amisstea/js-async-audit/internal/jsparse"
)

// Detect calls in a constructor body whose target returns a deferred result
// and whose outcome is neither awaited nor explicitly discarded with a
// `void` fire-and-forget marker. Constructors cannot await, so kicking off
// async work there races with the first use of the instance.
//
// Deferred targets are recognized without type information: this.<m>()
// where <m> is declared async on the same class, the global fetch, and
// callee names ending in Async.
type ruleUnawaitedConstructorCall struct{}

func NewRuleUnawaitedConstructorCall() Rule        { return &ruleUnawaitedConstructorCall{} }
func (r *ruleUnawaitedConstructorCall) ID() string { return RuleUnawaitedConstructorCallID }
func (r *ruleUnawaitedConstructorCall) Title() string {
	return "Unawaited async call in constructor"
}
func (r *ruleUnawaitedConstructorCall) DefaultSeverity() Severity { return SeverityHigh }
func (r *ruleUnawaitedConstructorCall) Suggestion() string {
	return "Move the call into an explicit init method, or mark intent with `void call()`"
}

func (r *ruleUnawaitedConstructorCall) Apply(_ context.Context, unit *jsparse.SourceUnit) ([]Finding, error) {
	var findings []Finding
	for _, d := range unit.Decls {
		if d.Kind != jsparse.KindClass {
			continue
		}
		asyncMethods := make(map[string]bool)
		var ctor *sitter.Node
		for _, m := range d.Methods {
			if m.Async {
				asyncMethods[m.Name] = true
			}
			if m.Name == "constructor" {
				ctor = m.Node
			}
		}
		if ctor == nil {
			continue
		}
		body := ctor.ChildByFieldName("body")
		if body == nil {
			continue
		}
		jsparse.Walk(body, func(n *sitter.Node) bool {
			if n.Type() != "expression_statement" {
				return true
			}
			expr := n.NamedChild(0)
			if expr == nil || expr.Type() != "call_expression" {
				return true
			}
			if !r.isDeferredCall(expr, unit.Source, asyncMethods) {
				return true
			}
			findings = append(findings, Finding{
				Message:  "constructor of " + d.Name + " fires deferred call " + calleeChainText(expr, unit.Source) + " without awaiting or marking it",
				Snippet:  snippetOf(unit, n),
				Position: positionOf(unit.Path, n),
				End:      endPositionOf(unit.Path, n),
			})
			return true
		})
	}
	return findings, nil
}

// isDeferredCall applies the deferred-target heuristics. Statements whose
// expression is an await or a `void` unary never reach this check: they are
// not bare call expressions.
func (r *ruleUnawaitedConstructorCall) isDeferredCall(call *sitter.Node, src []byte, asyncMethods map[string]bool) bool {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	switch fn.Type() {
	case "identifier":
		name := fn.Content(src)
		return name == "fetch" || strings.HasSuffix(name, "Async")
	case "member_expression":
		obj := fn.ChildByFieldName("object")
		prop := fn.ChildByFieldName("property")
		if obj == nil || prop == nil {
			return false
		}
		name := prop.Content(src)
		if obj.Type() == "this" && asyncMethods[name] {
			return true
		}
		return strings.HasSuffix(name, "Async")
	}
	return false
}
