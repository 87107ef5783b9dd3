// Package lang wraps the tree-sitter Python grammar used by the
// analyzer and the pattern scanner's validity gate.
package lang

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/probelab/codescope/internal/model"
)

// Python returns the tree-sitter Language for Python source.
func Python() *sitter.Language {
	return python.GetLanguage()
}

// NewParser creates a fresh Python parser.
// Each goroutine must use its own parser (not thread-safe).
func NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(Python())
	return p
}

// Parse parses source into a syntax tree. The caller owns the tree and
// must Close it after extraction.
func Parse(ctx context.Context, parser *sitter.Parser, source []byte) (*sitter.Tree, error) {
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}
	return tree, nil
}

// SyntaxIssue returns the location of the first malformed construct in
// the tree, or nil if the parse is clean. "First" means smallest start
// offset, so the reported line matches what a line-oriented parser
// would complain about.
func SyntaxIssue(root *sitter.Node) *model.SyntaxError {
	if root == nil || !root.HasError() {
		return nil
	}

	var found *sitter.Node

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if !n.HasError() && !n.IsMissing() {
			return
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			if found == nil || n.StartByte() < found.StartByte() {
				found = n
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)

	if found == nil {
		// Error flagged but no ERROR node reachable; report the root.
		return &model.SyntaxError{Line: int(root.StartPoint().Row) + 1, Msg: "invalid syntax"}
	}

	msg := "invalid syntax"
	if found.IsMissing() {
		msg = fmt.Sprintf("missing %s", found.Type())
	}
	return &model.SyntaxError{Line: int(found.StartPoint().Row) + 1, Msg: msg}
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
