// Package search finds regex matches in raw file text with surrounding
// context.
package search

import (
	"regexp"
	"strings"

	"github.com/probelab/codescope/internal/model"
)

// contextBytes is how much text is kept on each side of a match.
const contextBytes = 50

// File returns every match of re in source, in textual order. Each
// match carries a 1-based line number and a context window clipped to
// the file bounds. No matches yields nil; callers omit such files from
// aggregated results entirely.
func File(source []byte, re *regexp.Regexp) []model.SearchMatch {
	text := string(source)

	var matches []model.SearchMatch
	for _, loc := range re.FindAllStringIndex(text, -1) {
		start := loc[0] - contextBytes
		if start < 0 {
			start = 0
		}
		end := loc[1] + contextBytes
		if end > len(text) {
			end = len(text)
		}

		matches = append(matches, model.SearchMatch{
			Text:    text[loc[0]:loc[1]],
			Line:    strings.Count(text[:loc[0]], "\n") + 1,
			Context: text[start:end],
		})
	}
	return matches
}

// Compile validates and compiles a user-supplied pattern.
func Compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, model.ErrEmptyPattern
	}
	return regexp.Compile(pattern)
}
