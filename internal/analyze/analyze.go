// Package analyze extracts declarations from Python source files using
// tree-sitter.
package analyze

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/probelab/codescope/internal/lang"
	"github.com/probelab/codescope/internal/model"
)

// File parses source and extracts imports, class definitions with their
// methods, module-level functions, and module-level variables.
//
// A file that fails to parse yields an Analysis holding only Err; no
// partial declarations are returned. A malformed construct inside an
// otherwise valid parse records Err but keeps everything already
// collected. Callers handle unreadable files before calling: empty
// source yields an empty Analysis with no error.
//
// The parser must be a Python parser owned by the calling goroutine.
func File(ctx context.Context, parser *sitter.Parser, source []byte) *model.Analysis {
	res := &model.Analysis{}
	if len(source) == 0 {
		return res
	}

	tree, err := lang.Parse(ctx, parser, source)
	if err != nil {
		res.Err = &model.SyntaxError{Line: 1, Msg: err.Error()}
		return res
	}
	defer tree.Close()

	root := tree.RootNode()
	if se := lang.SyntaxIssue(root); se != nil {
		res.Err = se
		return res
	}

	// Worklist traversal visiting every node. Placement decisions
	// (top-level vs. nested) query the node's parent pointer, never
	// traversal state.
	queue := []*sitter.Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		switch n.Type() {
		case "import_statement":
			res.Imports = append(res.Imports, plainImports(n, source)...)
		case "import_from_statement":
			res.Imports = append(res.Imports, fromImports(n, source)...)
		case "class_definition":
			if ci, ok := classInfo(n, source); ok {
				res.Classes = append(res.Classes, ci)
			} else {
				recordExtractionError(res, n, "class definition")
			}
		case "function_definition":
			if !atModuleLevel(n) {
				break
			}
			if fi, ok := functionInfo(n, source); ok {
				res.Functions = append(res.Functions, fi)
			} else {
				recordExtractionError(res, n, "function definition")
			}
		case "assignment":
			if moduleLevelAssignment(n) {
				if vi, ok := variableInfo(n, source); ok {
					res.Variables = append(res.Variables, vi)
				}
			}
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			queue = append(queue, n.Child(i))
		}
	}

	return res
}

// recordExtractionError keeps the first malformed construct; extraction
// continues and already-collected declarations are preserved.
func recordExtractionError(res *model.Analysis, n *sitter.Node, what string) {
	if res.Err != nil {
		return
	}
	res.Err = &model.SyntaxError{
		Line: int(n.StartPoint().Row) + 1,
		Msg:  fmt.Sprintf("malformed %s", what),
	}
}

// atModuleLevel reports whether a definition's parent is the module
// root. A decorated_definition wrapper is transparent: the grammar
// inserts it between the definition and its true parent.
func atModuleLevel(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	if parent.Type() == "decorated_definition" {
		parent = parent.Parent()
		if parent == nil {
			return false
		}
	}
	return parent.Type() == "module"
}

// moduleLevelAssignment reports whether an assignment sits directly in
// module scope. Assignments are wrapped in an expression_statement, so
// module-level means grandparent is the module root.
func moduleLevelAssignment(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil || parent.Type() != "expression_statement" {
		return false
	}
	gp := parent.Parent()
	return gp != nil && gp.Type() == "module"
}

// plainImports records each imported module name verbatim; aliases are
// ignored and the original dotted name is kept.
func plainImports(n *sitter.Node, source []byte) []string {
	var names []string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "dotted_name":
			names = append(names, lang.NodeText(child, source))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, lang.NodeText(name, source))
			}
		}
	}
	return names
}

// fromImports records each imported symbol as "<module>.<symbol>". The
// module part drops relative-import dots and is empty for a pure
// relative import, producing forms like ".helper". That literal
// qualification is long-standing output and is kept as is.
func fromImports(n *sitter.Node, source []byte) []string {
	module := ""
	moduleNode := n.ChildByFieldName("module_name")
	if moduleNode != nil {
		switch moduleNode.Type() {
		case "dotted_name":
			module = lang.NodeText(moduleNode, source)
		case "relative_import":
			for i := 0; i < int(moduleNode.ChildCount()); i++ {
				if child := moduleNode.Child(i); child.Type() == "dotted_name" {
					module = lang.NodeText(child, source)
					break
				}
			}
		}
	}

	var names []string
	seenImportKeyword := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !seenImportKeyword {
			if child.Type() == "import" {
				seenImportKeyword = true
			}
			continue
		}
		switch child.Type() {
		case "dotted_name":
			names = append(names, module+"."+lang.NodeText(child, source))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, module+"."+lang.NodeText(name, source))
			}
		case "wildcard_import":
			names = append(names, module+".*")
		}
	}
	return names
}

func classInfo(n *sitter.Node, source []byte) (model.ClassInfo, bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return model.ClassInfo{}, false
	}

	ci := model.ClassInfo{
		Name: lang.NodeText(nameNode, source),
		Line: int(n.StartPoint().Row) + 1,
	}

	// Methods are exactly the function definitions directly under the
	// class body; deeper nesting never counts.
	body := n.ChildByFieldName("body")
	if body == nil {
		return ci, true
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		def := body.Child(i)
		if def.Type() == "decorated_definition" {
			if inner := def.ChildByFieldName("definition"); inner != nil {
				def = inner
			}
		}
		if def.Type() != "function_definition" {
			continue
		}
		if fi, ok := functionInfo(def, source); ok {
			ci.Methods = append(ci.Methods, fi)
		}
	}
	return ci, true
}

func functionInfo(n *sitter.Node, source []byte) (model.FunctionInfo, bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return model.FunctionInfo{}, false
	}
	return model.FunctionInfo{
		Name:   lang.NodeText(nameNode, source),
		Line:   int(n.StartPoint().Row) + 1,
		Params: parameterNames(n.ChildByFieldName("parameters"), source),
	}, true
}

// parameterNames collects positional parameter names in declaration
// order. Collection stops at the first splat or separator, matching the
// positional-only view the rest of the output is built around.
func parameterNames(params *sitter.Node, source []byte) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.ChildCount()); i++ {
		p := params.Child(i)
		switch p.Type() {
		case "identifier":
			names = append(names, lang.NodeText(p, source))
		case "typed_parameter", "typed_default_parameter", "default_parameter":
			if name := firstIdentifier(p, source); name != "" {
				names = append(names, name)
			}
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator", "positional_separator":
			return names
		}
	}
	return names
}

func firstIdentifier(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() == "identifier" {
			return lang.NodeText(child, source)
		}
	}
	return ""
}

func variableInfo(n *sitter.Node, source []byte) (model.VariableInfo, bool) {
	left := n.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		// Attribute, subscript and tuple targets are not module
		// globals in the sense tracked here.
		return model.VariableInfo{}, false
	}
	return model.VariableInfo{
		Name: lang.NodeText(left, source),
		Line: int(n.StartPoint().Row) + 1,
	}, true
}
