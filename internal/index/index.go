// Package index builds the file inventory for a project tree and owns
// raw file access.
package index

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/probelab/codescope/internal/config"
	"github.com/probelab/codescope/internal/model"
)

// Scan walks the tree under root and returns entries for every file
// whose name matches one of the configured glob patterns. Results are
// sorted by relative path, so repeated scans of an unchanged tree
// produce identical inventories.
//
// Warnings (unreadable entries, oversized files) go to stderr; they
// never fail the scan.
func Scan(root string, cfg *config.Config, stderr io.Writer) ([]model.FileEntry, error) {
	globs, err := compilePatterns(cfg.Include)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(cfg.SkipDirs))
	for _, d := range cfg.SkipDirs {
		skip[d] = struct{}{}
	}

	gi := loadGitignore(root)

	var entries []model.FileEntry

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: %v\n", path, err)
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skipIt := skip[name]; skipIt || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		if !matchesAny(globs, name) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: %v\n", rel, err)
			return nil
		}
		if info.Size() > cfg.MaxFileSize {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: skipped (>%d bytes)\n", rel, cfg.MaxFileSize)
			return nil
		}

		entries = append(entries, model.FileEntry{
			Path:    path,
			RelPath: rel,
			Ext:     strings.TrimPrefix(filepath.Ext(name), "."),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelPath < entries[j].RelPath
	})

	return entries, nil
}

// Find returns the entry whose relative path matches rel.
func Find(entries []model.FileEntry, rel string) (model.FileEntry, error) {
	rel = filepath.ToSlash(rel)
	for _, e := range entries {
		if e.RelPath == rel {
			return e, nil
		}
	}
	return model.FileEntry{}, fmt.Errorf("%s: %w", rel, model.ErrNoSuchFile)
}

// ReadFile reads a file's content. An unreadable file is logged and
// treated as empty rather than failing the run.
func ReadFile(path string, stderr io.Writer) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: failed to read %s: %v\n", path, err)
		return nil
	}
	return data
}

// WriteFile replaces a file's content wholesale. A relative path is
// resolved against root. No diffing, no atomicity beyond the single
// write call.
func WriteFile(root, path string, content []byte) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling glob %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// matchesAny matches the bare file name, not the path: patterns are
// extension globs like "*.py".
func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
