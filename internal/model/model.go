// Package model defines core data structures for codescope.
package model

import "errors"

// Validation errors shared by consumers of the model types.
var (
	ErrEmptyPattern = errors.New("search pattern cannot be empty")
	ErrNoSuchFile   = errors.New("file is not part of the project index")
)

// FileEntry represents one indexed source file. Entries are immutable;
// re-indexing an unchanged tree yields an identical set.
type FileEntry struct {
	Path    string // absolute path
	RelPath string // relative to project root, slash-separated
	Ext     string // extension without the leading dot
	Size    int64  // size in bytes
}

// SyntaxError describes a parse failure in one file.
type SyntaxError struct {
	Line int
	Msg  string
}

// FunctionInfo describes a function or method definition.
type FunctionInfo struct {
	Name   string
	Line   int
	Params []string
}

// ClassInfo describes a class definition and its directly nested methods.
type ClassInfo struct {
	Name    string
	Line    int
	Methods []FunctionInfo
}

// VariableInfo describes a module-level variable assignment.
type VariableInfo struct {
	Name string
	Line int
}

// Analysis holds the declarations extracted from a single source file.
//
// Functions contains only definitions whose parent is the module root;
// functions nested in a class body appear solely under the owning
// ClassInfo. Err is set if and only if parsing failed; an unreadable
// file produces an empty Analysis with Err == nil.
type Analysis struct {
	Imports   []string
	Classes   []ClassInfo
	Functions []FunctionInfo
	Variables []VariableInfo
	Err       *SyntaxError
}

// Empty reports whether no declarations were extracted and no error was
// recorded.
func (a *Analysis) Empty() bool {
	return a.Err == nil &&
		len(a.Imports) == 0 &&
		len(a.Classes) == 0 &&
		len(a.Functions) == 0 &&
		len(a.Variables) == 0
}

// Finding is a single located anti-pattern or syntax diagnostic.
type Finding struct {
	File    string // project-relative path
	Line    int
	Kind    string
	Message string
}

// SearchMatch is one regex match with its surrounding context window.
type SearchMatch struct {
	Text    string
	Line    int
	Context string
}

// FileMatches groups the matches found in one file. Files without
// matches are never represented; an empty Matches slice does not occur.
type FileMatches struct {
	File    string // project-relative path
	Matches []SearchMatch
}
