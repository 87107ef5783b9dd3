package cli

import (
	"context"
	"io"
	"regexp"
	"sync"

	"github.com/probelab/codescope/internal/index"
	"github.com/probelab/codescope/internal/lang"
	"github.com/probelab/codescope/internal/model"
	"github.com/probelab/codescope/internal/scan"
	"github.com/probelab/codescope/internal/search"
)

// scanProject runs the anti-pattern scanner over every indexed Python
// file. Files are scanned concurrently, but findings are flattened in
// inventory order and each file's internal ordering is untouched.
func scanProject(ctx context.Context, entries []model.FileEntry, workers int, stderr io.Writer) []model.Finding {
	var targets []model.FileEntry
	for _, e := range entries {
		if e.Ext == "py" {
			targets = append(targets, e)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	perFile := make([][]model.Finding, len(targets))
	work := make(chan int, len(targets))
	safeStderr := newLockedWriter(stderr)

	var wg sync.WaitGroup
	for n := 0; n < poolSize(workers, len(targets)); n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser.
			parser := lang.NewParser()

			for idx := range work {
				e := targets[idx]
				source := index.ReadFile(e.Path, safeStderr)
				if len(source) == 0 {
					continue
				}
				perFile[idx] = scan.File(ctx, parser, e.RelPath, source)
			}
		}()
	}

	for i := range targets {
		work <- i
	}
	close(work)
	wg.Wait()

	var findings []model.Finding
	for _, fs := range perFile {
		findings = append(findings, fs...)
	}
	return findings
}

// searchProject matches a compiled pattern against every indexed file.
// Files with no matches are omitted from the results entirely.
func searchProject(entries []model.FileEntry, re *regexp.Regexp, workers int, stderr io.Writer) []model.FileMatches {
	if len(entries) == 0 {
		return nil
	}

	perFile := make([][]model.SearchMatch, len(entries))
	work := make(chan int, len(entries))
	safeStderr := newLockedWriter(stderr)

	var wg sync.WaitGroup
	for n := 0; n < poolSize(workers, len(entries)); n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				source := index.ReadFile(entries[idx].Path, safeStderr)
				if len(source) == 0 {
					continue
				}
				perFile[idx] = search.File(source, re)
			}
		}()
	}

	for i := range entries {
		work <- i
	}
	close(work)
	wg.Wait()

	var results []model.FileMatches
	for i, matches := range perFile {
		if len(matches) > 0 {
			results = append(results, model.FileMatches{File: entries[i].RelPath, Matches: matches})
		}
	}
	return results
}

func poolSize(workers, jobs int) int {
	if workers < 1 {
		workers = 1
	}
	if workers > jobs {
		workers = jobs
	}
	return workers
}

// lockedWriter serializes warning output from worker goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newLockedWriter(w io.Writer) *lockedWriter {
	return &lockedWriter{w: w}
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
