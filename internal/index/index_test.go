package index

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/probelab/codescope/internal/config"
	"github.com/probelab/codescope/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanMatchesConfiguredGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hello')")
	writeFile(t, dir, "app.js", "console.log(1)")
	writeFile(t, dir, "index.html", "<html></html>")
	writeFile(t, dir, "notes.txt", "skip me")
	writeFile(t, dir, "lib/util.py", "def helper(): pass")

	entries, err := Scan(dir, config.Default(), io.Discard)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d: %+v", len(entries), entries)
	}

	// Sorted by relative path.
	wantRel := []string{"app.js", "index.html", "lib/util.py", "main.py"}
	for i, e := range entries {
		if e.RelPath != wantRel[i] {
			t.Errorf("entry %d: rel = %q, want %q", i, e.RelPath, wantRel[i])
		}
	}

	py, err := Find(entries, "main.py")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if py.Ext != "py" {
		t.Errorf("ext = %q, want py", py.Ext)
	}
	if py.Size != int64(len("print('hello')")) {
		t.Errorf("size = %d", py.Size)
	}
	if !filepath.IsAbs(py.Path) {
		t.Errorf("path %q is not absolute", py.Path)
	}
}

func TestScanSkipsDirsAndHiddenFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "node_modules/pkg.py", "pass")
	writeFile(t, dir, "__pycache__/cached.py", "pass")
	writeFile(t, dir, ".hidden/secret.py", "pass")
	writeFile(t, dir, ".dotfile.py", "pass")

	entries, err := Scan(dir, config.Default(), io.Discard)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(entries) != 1 || entries[0].RelPath != "main.py" {
		t.Fatalf("expected only main.py, got %+v", entries)
	}
}

func TestScanHonorsGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated.py\n")
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "generated.py", "pass")

	entries, err := Scan(dir, config.Default(), io.Discard)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(entries) != 1 || entries[0].RelPath != "main.py" {
		t.Fatalf("expected only main.py, got %+v", entries)
	}
}

func TestScanSkipsOversizedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "small.py", "pass")
	writeFile(t, dir, "big.py", "# "+string(make([]byte, 100)))

	cfg := config.Default()
	cfg.MaxFileSize = 50

	entries, err := Scan(dir, cfg, io.Discard)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 1 || entries[0].RelPath != "small.py" {
		t.Fatalf("expected only small.py, got %+v", entries)
	}
}

func TestScanIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1")
	writeFile(t, dir, "pkg/b.py", "y = 2")
	writeFile(t, dir, "pkg/deep/c.json", "{}")

	first, err := Scan(dir, config.Default(), io.Discard)
	if err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	second, err := Scan(dir, config.Default(), io.Discard)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated scans differ:\n%+v\n%+v", first, second)
	}
}

func TestFindUnknownFile(t *testing.T) {
	t.Parallel()

	_, err := Find([]model.FileEntry{{RelPath: "a.py"}}, "b.py")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestReadFileDegradesToEmpty(t *testing.T) {
	t.Parallel()

	data := ReadFile(filepath.Join(t.TempDir(), "missing.py"), io.Discard)
	if data != nil {
		t.Errorf("expected nil content, got %q", data)
	}
}

func TestWriteFileRelativeAndAbsolute(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app.py", "old")

	if err := WriteFile(dir, "app.py", []byte("new")); err != nil {
		t.Fatalf("WriteFile relative: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "app.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want new", got)
	}

	abs := filepath.Join(dir, "other.py")
	if err := WriteFile(dir, abs, []byte("created")); err != nil {
		t.Fatalf("WriteFile absolute: %v", err)
	}
	got, err = os.ReadFile(abs)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "created" {
		t.Errorf("content = %q, want created", got)
	}
}
