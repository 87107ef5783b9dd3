// codescope is a lightweight source-analysis engine for inspecting an
// unfamiliar codebase: structural indexing, declaration extraction,
// pattern search and heuristic anti-pattern scanning.
package main

import "github.com/probelab/codescope/internal/cli"

func main() {
	cli.Execute()
}
