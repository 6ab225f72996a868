package scanner

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/amisstea/js-async-audit/internal/jsparse"
)

// knownComponentBases lists superclass identifiers that mark a class as a
// legacy UI component across the common frameworks (extend as needed).
var knownComponentBases = []string{
	"Component",
	"PureComponent",
	"React.Component",
	"React.PureComponent",
	"Preact.Component",
	"preact.Component",
	"LitElement",
	"HTMLElement",
	"Polymer.Element",
	"Backbone.View",
	"Vue",
}

func isComponentBase(name string) bool {
	for _, b := range knownComponentBases {
		if b == name {
			return true
		}
	}
	return false
}

// lifecycleMethodNames lists reserved lifecycle hook names of class-based
// components: the React class lifecycle plus the generic mount/update/
// unmount triple used by several smaller frameworks.
var lifecycleMethodNames = []string{
	"componentWillMount",
	"componentDidMount",
	"componentWillReceiveProps",
	"shouldComponentUpdate",
	"componentWillUpdate",
	"componentDidUpdate",
	"componentWillUnmount",
	"componentDidCatch",
	"getSnapshotBeforeUpdate",
	"onMount",
	"onUpdate",
	"onUnmount",
	"connectedCallback",
	"disconnectedCallback",
}

func isLifecycleMethod(name string) bool {
	for _, m := range lifecycleMethodNames {
		if m == name {
			return true
		}
	}
	return false
}

// isContinuationMethod reports whether a method name attaches a
// continuation handler to a promise.
func isContinuationMethod(name string) bool {
	switch name {
	case "then", "catch", "finally":
		return true
	default:
		return false
	}
}

// promiseFactoryObjects are receiver names of resolve/reject style promise
// construction helpers.
var promiseFactoryObjects = map[string]bool{
	"Promise": true,
	"Q":       true,
	"$q":      true,
}

// isPromiseFactoryCall reports whether expr is a call like
// Promise.resolve(x) or Promise.reject(err).
func isPromiseFactoryCall(expr *sitter.Node, src []byte) bool {
	if expr == nil || expr.Type() != "call_expression" {
		return false
	}
	fn := expr.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return false
	}
	obj := fn.ChildByFieldName("object")
	prop := fn.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return false
	}
	if !promiseFactoryObjects[obj.Content(src)] {
		return false
	}
	name := prop.Content(src)
	return name == "resolve" || name == "reject"
}

// enclosingFunction returns the nearest ancestor node that introduces a
// function scope, or nil at module top level.
func enclosingFunction(n *sitter.Node) *sitter.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if jsparse.IsFunctionLike(p) {
			return p
		}
	}
	return nil
}

// inAsyncFunction reports whether the nearest enclosing function of n is
// marked async. Nodes at module top level or inside synchronous functions
// have no awaitable form in scope and are exempt from async-only rules.
func inAsyncFunction(n *sitter.Node) bool {
	fn := enclosingFunction(n)
	return fn != nil && jsparse.HasAsyncKeyword(fn)
}

// continuationCallee returns the property node when call is a continuation
// invocation (x.then(...), x.catch(...), x.finally(...)).
func continuationCallee(call *sitter.Node, src []byte) *sitter.Node {
	if call.Type() != "call_expression" {
		return nil
	}
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return nil
	}
	prop := fn.ChildByFieldName("property")
	if prop == nil || !isContinuationMethod(prop.Content(src)) {
		return nil
	}
	return prop
}

// calleeName returns the textual name of a call's target: the identifier for
// f(), the property for obj.f(). Empty when the callee is something else.
func calleeName(call *sitter.Node, src []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return fn.Content(src)
	case "member_expression":
		if prop := fn.ChildByFieldName("property"); prop != nil {
			return prop.Content(src)
		}
	}
	return ""
}

// positionOf converts a node's start point to a 1-based Position.
func positionOf(path string, n *sitter.Node) Position {
	return Position{
		Filename: path,
		Line:     int(n.StartPoint().Row) + 1,
		Column:   int(n.StartPoint().Column) + 1,
	}
}

// endPositionOf converts a node's end point to a 1-based Position.
func endPositionOf(path string, n *sitter.Node) Position {
	return Position{
		Filename: path,
		Line:     int(n.EndPoint().Row) + 1,
		Column:   int(n.EndPoint().Column) + 1,
	}
}

// snippetOf returns a single-line excerpt of the node's source text,
// truncated to keep reports readable.
func snippetOf(u *jsparse.SourceUnit, n *sitter.Node) string {
	text := u.Text(n)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + " ..."
	}
	const max = 120
	if len(text) > max {
		text = text[:max] + "..."
	}
	return text
}
