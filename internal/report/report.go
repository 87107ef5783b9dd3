// Package report renders indexer, analyzer, scanner and search output
// for the console. It formats values exactly as produced and never
// rewrites them.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/probelab/codescope/internal/model"
)

// IndexSummary prints the one-line result of an index run.
func IndexSummary(w io.Writer, n int) {
	fmt.Fprintf(w, "Project scanned: found %d files\n", n)
}

// Structure prints the indexed files as a nested directory tree.
func Structure(w io.Writer, root string, entries []model.FileEntry) {
	fmt.Fprintf(w, "Project structure for: %s\n", root)

	tree := newDirNode()
	for _, e := range entries {
		tree.insert(strings.Split(e.RelPath, "/"))
	}
	tree.print(w, "")
}

// Analysis prints the declarations extracted from one file.
func Analysis(w io.Writer, rel string, a *model.Analysis) {
	fmt.Fprintf(w, "Analysis for %s:\n", rel)
	if a.Err != nil {
		fmt.Fprintf(w, "Error: syntax error at line %d: %s\n", a.Err.Line, a.Err.Msg)
	}

	fmt.Fprintf(w, "Imports: [%s]\n", strings.Join(a.Imports, ", "))

	fmt.Fprintf(w, "\nClasses:\n")
	for _, cls := range a.Classes {
		fmt.Fprintf(w, "  %s (line %d):\n", cls.Name, cls.Line)
		for _, m := range cls.Methods {
			fmt.Fprintf(w, "    - %s(%s) at line %d\n", m.Name, strings.Join(m.Params, ", "), m.Line)
		}
	}

	fmt.Fprintf(w, "\nFunctions:\n")
	for _, fn := range a.Functions {
		fmt.Fprintf(w, "  %s(%s) at line %d\n", fn.Name, strings.Join(fn.Params, ", "), fn.Line)
	}

	if len(a.Variables) > 0 {
		fmt.Fprintf(w, "\nVariables:\n")
		for _, v := range a.Variables {
			fmt.Fprintf(w, "  %s at line %d\n", v.Name, v.Line)
		}
	}
}

// SearchResults prints per-file matches for a pattern.
func SearchResults(w io.Writer, pattern string, results []model.FileMatches) {
	fmt.Fprintf(w, "Search results for pattern '%s':\n", pattern)
	for _, fr := range results {
		fmt.Fprintf(w, "\nFile: %s\n", fr.File)
		for _, m := range fr.Matches {
			fmt.Fprintf(w, "  Line %d: %s\n", m.Line, m.Text)
		}
	}
}

// Findings prints scanner findings with their count.
func Findings(w io.Writer, findings []model.Finding) {
	fmt.Fprintf(w, "Found %d potential issues:\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(w, "  %s (line %d): %s - %s\n", f.File, f.Line, f.Kind, f.Message)
	}
}

// dirNode is one level of the structure tree.
type dirNode struct {
	files []string
	dirs  map[string]*dirNode
}

func newDirNode() *dirNode {
	return &dirNode{dirs: make(map[string]*dirNode)}
}

func (n *dirNode) insert(parts []string) {
	if len(parts) == 1 {
		n.files = append(n.files, parts[0])
		return
	}
	child, ok := n.dirs[parts[0]]
	if !ok {
		child = newDirNode()
		n.dirs[parts[0]] = child
	}
	child.insert(parts[1:])
}

func (n *dirNode) print(w io.Writer, prefix string) {
	files := append([]string(nil), n.files...)
	sort.Strings(files)
	for _, f := range files {
		fmt.Fprintf(w, "%s├── %s\n", prefix, f)
	}

	names := make([]string, 0, len(n.dirs))
	for name := range n.dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		last := i == len(names)-1
		branch, extension := "├── ", "│   "
		if last {
			branch, extension = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s/\n", prefix, branch, name)
		n.dirs[name].print(w, prefix+extension)
	}
}
