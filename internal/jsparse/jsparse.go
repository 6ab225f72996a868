// Package jsparse turns JavaScript and TypeScript source text into a
// SourceUnit: a parsed tree plus the top-level declarations rules care about.
package jsparse

import (
	"context"
	"fmt"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language selects the grammar used to parse a file.
type Language int

const (
	LangJavaScript Language = iota
	LangTypeScript
	LangTSX
)

func (l Language) String() string {
	switch l {
	case LangTypeScript:
		return "typescript"
	case LangTSX:
		return "tsx"
	default:
		return "javascript"
	}
}

// DetectLanguage picks a grammar from the file extension. Anything that is
// not recognizably TypeScript parses with the JavaScript grammar, which also
// covers .jsx via the shared grammar.
func DetectLanguage(path string) Language {
	switch filepath.Ext(path) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".tsx":
		return LangTSX
	default:
		return LangJavaScript
	}
}

// IsSourceFile reports whether path has a JavaScript or TypeScript source
// extension.
func IsSourceFile(path string) bool {
	switch filepath.Ext(path) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".mts", ".cts", ".tsx":
		return true
	default:
		return false
	}
}

func grammar(l Language) *sitter.Language {
	switch l {
	case LangTypeScript:
		return typescript.GetLanguage()
	case LangTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Kind tags a top-level declaration.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindMethod   Kind = "method"
	KindVariable Kind = "variable"
)

// Span is a half-open source range in 1-based line/column coordinates.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Declaration is one function, class, method or variable found at (or, for
// methods, directly under a class at) the top level of a file.
type Declaration struct {
	Name       string
	Kind       Kind
	Async      bool
	Superclass string // class declarations only
	Span       Span
	Node       *sitter.Node

	// Methods holds the method declarations of a class, in source order.
	Methods []Declaration
}

// SourceUnit is the parsed representation of one input file. It owns the
// underlying tree-sitter tree; call Close when done.
type SourceUnit struct {
	Path   string
	Source []byte
	Lang   Language
	Root   *sitter.Node
	Decls  []Declaration

	tree *sitter.Tree
}

// Close releases the parse tree. The unit must not be used afterwards.
func (u *SourceUnit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

// Text returns the source text covered by n.
func (u *SourceUnit) Text(n *sitter.Node) string {
	return n.Content(u.Source)
}

// ParseError reports unparseable input. The whole file is rejected; no
// partial unit is produced.
type ParseError struct {
	Path   string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error", e.Path, e.Line, e.Column)
}

// Parse parses src using the grammar implied by path. Syntax errors yield a
// *ParseError located at the first error node; the returned unit is nil in
// that case.
func Parse(ctx context.Context, path string, src []byte) (*SourceUnit, error) {
	return ParseAs(ctx, path, src, DetectLanguage(path))
}

// ParseAs parses src with an explicit grammar choice.
func ParseAs(ctx context.Context, path string, src []byte, lang Language) (*SourceUnit, error) {
	p := sitter.NewParser()
	p.SetLanguage(grammar(lang))
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	root := tree.RootNode()
	if root.HasError() {
		line, col := firstErrorPosition(root)
		tree.Close()
		return nil, &ParseError{Path: path, Line: line, Column: col}
	}
	u := &SourceUnit{
		Path:   path,
		Source: src,
		Lang:   lang,
		Root:   root,
		tree:   tree,
	}
	u.Decls = extractDecls(root, src)
	return u, nil
}

// firstErrorPosition locates the earliest ERROR or missing node.
func firstErrorPosition(root *sitter.Node) (line, col int) {
	line, col = -1, -1
	Walk(root, func(n *sitter.Node) bool {
		if line >= 0 {
			return false
		}
		if n.IsError() || n.IsMissing() {
			line = int(n.StartPoint().Row) + 1
			col = int(n.StartPoint().Column) + 1
			return false
		}
		return true
	})
	if line < 0 {
		line, col = int(root.EndPoint().Row)+1, int(root.EndPoint().Column)+1
	}
	return line, col
}

// Walk visits n and its subtree in preorder. Returning false from fn skips
// the node's children.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		Walk(n.Child(i), fn)
	}
}

func spanOf(n *sitter.Node) Span {
	return Span{
		StartLine:   int(n.StartPoint().Row) + 1,
		StartColumn: int(n.StartPoint().Column) + 1,
		EndLine:     int(n.EndPoint().Row) + 1,
		EndColumn:   int(n.EndPoint().Column) + 1,
	}
}

func extractDecls(root *sitter.Node, src []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() == "export_statement" {
			// Unwrap `export` / `export default` declarations.
			for j := 0; j < int(child.ChildCount()); j++ {
				if d, ok := declFromNode(child.Child(j), src); ok {
					decls = append(decls, d)
				}
			}
			continue
		}
		if d, ok := declFromNode(child, src); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

func declFromNode(n *sitter.Node, src []byte) (Declaration, bool) {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		d := Declaration{Kind: KindFunction, Span: spanOf(n), Node: n}
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "identifier":
				d.Name = c.Content(src)
			case "async":
				d.Async = true
			}
		}
		return d, d.Name != ""
	case "class_declaration":
		d := Declaration{Kind: KindClass, Span: spanOf(n), Node: n}
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "identifier", "type_identifier":
				if d.Name == "" {
					d.Name = c.Content(src)
				}
			case "class_heritage":
				d.Superclass = SuperclassName(c, src)
			case "class_body":
				d.Methods = classMethods(c, src)
			}
		}
		return d, d.Name != ""
	case "lexical_declaration", "variable_declaration":
		// Record the first declarator; rules inspect initializers directly.
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() != "variable_declarator" {
				continue
			}
			d := Declaration{Kind: KindVariable, Span: spanOf(n), Node: n}
			for j := 0; j < int(c.ChildCount()); j++ {
				gc := c.Child(j)
				switch gc.Type() {
				case "identifier":
					if d.Name == "" {
						d.Name = gc.Content(src)
					}
				case "arrow_function", "function_expression", "function":
					d.Kind = KindFunction
					d.Async = HasAsyncKeyword(gc)
				}
			}
			if d.Name != "" {
				return d, true
			}
		}
	}
	return Declaration{}, false
}

func classMethods(body *sitter.Node, src []byte) []Declaration {
	var methods []Declaration
	for i := 0; i < int(body.ChildCount()); i++ {
		m := body.Child(i)
		if m.Type() != "method_definition" {
			continue
		}
		d := Declaration{Kind: KindMethod, Span: spanOf(m), Node: m, Async: HasAsyncKeyword(m)}
		for j := 0; j < int(m.ChildCount()); j++ {
			c := m.Child(j)
			if c.Type() == "property_identifier" {
				d.Name = c.Content(src)
				break
			}
		}
		if d.Name != "" {
			methods = append(methods, d)
		}
	}
	return methods
}

// SuperclassName extracts the extends target from a class_heritage node.
// The TypeScript grammar nests an extends_clause; JavaScript does not.
func SuperclassName(heritage *sitter.Node, src []byte) string {
	for i := 0; i < int(heritage.ChildCount()); i++ {
		c := heritage.Child(i)
		switch c.Type() {
		case "extends_clause":
			return SuperclassName(c, src)
		case "identifier", "member_expression", "type_identifier":
			return c.Content(src)
		}
	}
	return ""
}

// HasAsyncKeyword reports whether a function-like node carries the async
// modifier.
func HasAsyncKeyword(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

// IsFunctionLike reports whether n introduces a new function scope.
func IsFunctionLike(n *sitter.Node) bool {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration",
		"function_expression", "function", "arrow_function", "method_definition":
		return true
	}
	return false
}
