// Package scan flags common Python anti-patterns with ordered regex
// heuristics, gated by a syntax-validity check.
package scan

import (
	"context"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/probelab/codescope/internal/lang"
	"github.com/probelab/codescope/internal/model"
)

// rule pairs a compiled matcher with the finding it produces. Rules are
// evaluated strictly in table order.
type rule struct {
	re      *regexp.Regexp
	kind    string
	message string
}

// rules is the canonical anti-pattern table. These are deliberate
// heuristics over raw text, not semantic checks: false positives and
// misses are accepted. The list-building rule matches a two-line window
// (empty list assignment followed by an append inside a loop).
var rules = []rule{
	{regexp.MustCompile(`except:`), "Bare except clause", "Use specific exceptions"},
	{regexp.MustCompile(`except Exception:`), "Too broad exception handling", "Use more specific exceptions"},
	{regexp.MustCompile(`\.get\([^,]+\)`), "dict.get() without default", "Provide default value to avoid potential None"},
	{regexp.MustCompile(`print\(.*\)`), "Debug print statement", "Remove debug prints"},
	{regexp.MustCompile(`.*=\s*\[\]\s*\nfor.*:.*\.append`), "Inefficient list building", "Use list comprehension"},
	{regexp.MustCompile(`if\s+[^=!<>]+\s+==\s+True`), "Unnecessary comparison to True", `Use "if condition:" instead`},
	{regexp.MustCompile(`if\s+[^=!<>]+\s+==\s+False`), "Unnecessary comparison to False", `Use "if not condition:" instead`},
}

// File scans one file's raw text and returns located findings.
//
// A file that fails to parse yields exactly one "Syntax Error" finding
// and nothing else: heuristics never run over syntactically invalid
// text. Otherwise findings appear in rule order, then match order
// within the file.
//
// The parser must be a Python parser owned by the calling goroutine.
func File(ctx context.Context, parser *sitter.Parser, relPath string, source []byte) []model.Finding {
	if se := validity(ctx, parser, source); se != nil {
		return []model.Finding{{
			File:    relPath,
			Line:    se.Line,
			Kind:    "Syntax Error",
			Message: se.Msg,
		}}
	}

	text := string(source)
	var findings []model.Finding
	for _, r := range rules {
		for _, loc := range r.re.FindAllStringIndex(text, -1) {
			findings = append(findings, model.Finding{
				File:    relPath,
				Line:    lineAt(text, loc[0]),
				Kind:    r.kind,
				Message: r.message,
			})
		}
	}
	return findings
}

func validity(ctx context.Context, parser *sitter.Parser, source []byte) *model.SyntaxError {
	tree, err := lang.Parse(ctx, parser, source)
	if err != nil {
		return &model.SyntaxError{Line: 1, Msg: err.Error()}
	}
	defer tree.Close()
	return lang.SyntaxIssue(tree.RootNode())
}

// lineAt computes a 1-based line number by counting newlines before the
// byte offset.
func lineAt(text string, offset int) int {
	line := 1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
		}
	}
	return line
}
