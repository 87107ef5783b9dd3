// Package cli implements the codescope command surface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/probelab/codescope/internal/analyze"
	"github.com/probelab/codescope/internal/config"
	"github.com/probelab/codescope/internal/index"
	"github.com/probelab/codescope/internal/lang"
	"github.com/probelab/codescope/internal/report"
	"github.com/probelab/codescope/internal/search"
)

// version is set at build time via -ldflags.
var version = "dev"

// options holds the flag values for one invocation.
type options struct {
	structure bool
	analyze   string
	search    string
	bugs      bool
	write     string
	from      string
	ext       string
	maxSize   int64
	workers   int
}

// Execute runs the root command. Called once from main.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the codescope command. A fresh command is built per
// invocation so flag state never leaks between runs (or tests).
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "codescope [flags] [project-path]",
		Short: "Structural index, declaration analysis and anti-pattern scanning for a project tree",
		Long: `codescope inspects an unfamiliar codebase from the command line.

It indexes source files by extension globs, extracts declarations from
Python files (imports, classes with methods, functions, module
globals), searches file contents by regex, and flags common
anti-patterns with heuristic rules.

Operation flags are independent and combine freely in one invocation:

  codescope --structure .                 # print the file tree
  codescope --analyze app/models.py .     # declarations of one file
  codescope --search 'TODO|FIXME' .       # regex search with context
  codescope --bugs .                      # project-wide anti-pattern scan
  codescope --structure --bugs .          # both in one run
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&opts.structure, "structure", false, "print the project structure tree")
	fl.StringVar(&opts.analyze, "analyze", "", "analyze one file's declarations (project-relative path)")
	fl.StringVar(&opts.search, "search", "", "search indexed files for a regex pattern")
	fl.BoolVar(&opts.bugs, "bugs", false, "scan Python files for common anti-patterns")
	fl.StringVar(&opts.write, "write", "", "overwrite a file with replacement content (requires --from)")
	fl.StringVar(&opts.from, "from", "", "path holding replacement content for --write, or - for stdin")
	fl.StringVar(&opts.ext, "ext", "", "comma-separated glob patterns overriding the indexed extensions")
	fl.Int64Var(&opts.maxSize, "max-file-size", 0, "skip files larger than this many bytes")
	fl.IntVar(&opts.workers, "workers", 0, "number of per-file worker goroutines")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	applyOverrides(cmd, opts, cfg)

	entries, err := index.Scan(root, cfg, stderr)
	if err != nil {
		return err
	}

	if opts.write != "" {
		writeWholeFile(cmd, opts, root)
	}

	if opts.structure {
		report.Structure(stdout, root, entries)
	}

	if opts.analyze != "" {
		// Indexed files resolve through the inventory; anything else
		// is read relative to the project root.
		path := filepath.Join(root, opts.analyze)
		if e, err := index.Find(entries, opts.analyze); err == nil {
			path = e.Path
		}
		source := index.ReadFile(path, stderr)
		analysis := analyze.File(cmd.Context(), lang.NewParser(), source)
		report.Analysis(stdout, opts.analyze, analysis)
	}

	if opts.search != "" {
		re, err := search.Compile(opts.search)
		if err != nil {
			return fmt.Errorf("search pattern: %w", err)
		}
		results := searchProject(entries, re, cfg.Workers, stderr)
		report.SearchResults(stdout, opts.search, results)
	}

	if opts.bugs {
		findings := scanProject(cmd.Context(), entries, cfg.Workers, stderr)
		report.Findings(stdout, findings)
	}

	if !opts.structure && opts.analyze == "" && opts.search == "" && !opts.bugs && opts.write == "" {
		report.IndexSummary(stdout, len(entries))
	}

	return nil
}

func applyOverrides(cmd *cobra.Command, opts *options, cfg *config.Config) {
	if opts.ext != "" {
		var patterns []string
		for _, p := range strings.Split(opts.ext, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		if len(patterns) > 0 {
			cfg.Include = patterns
		}
	}
	if cmd.Flags().Changed("max-file-size") && opts.maxSize > 0 {
		cfg.MaxFileSize = opts.maxSize
	}
	if cmd.Flags().Changed("workers") && opts.workers > 0 {
		cfg.Workers = opts.workers
	}
}

// writeWholeFile performs the whole-file update operation. Failures are
// logged and the rest of the invocation proceeds.
func writeWholeFile(cmd *cobra.Command, opts *options, root string) {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	content, err := readReplacement(cmd, opts.from)
	if err != nil {
		fmt.Fprintf(stderr, "Error updating %s: %v\n", opts.write, err)
		return
	}
	if err := index.WriteFile(root, opts.write, content); err != nil {
		fmt.Fprintf(stderr, "Error updating %s: %v\n", opts.write, err)
		return
	}
	fmt.Fprintf(stdout, "File updated: %s\n", opts.write)
}

func readReplacement(cmd *cobra.Command, from string) ([]byte, error) {
	if from == "" {
		return nil, fmt.Errorf("--write requires --from")
	}
	if from == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(from)
	if err != nil {
		return nil, fmt.Errorf("reading replacement content: %w", err)
	}
	return data, nil
}
