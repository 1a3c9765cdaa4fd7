package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
)

// SourceContent is written into every fixture source file.
const SourceContent = "function out = f(in)\nend\n"

// SetupTestGitRepo initializes a temporary git repository for testing.
// Returns the repository and the symlink-free absolute path of its worktree.
func SetupTestGitRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()

	tempDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}

	repo, err := git.PlainInit(tempDir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	return repo, tempDir
}

// NewProject creates a git worktree with the docs/api anchor and the given
// slash-separated source files, and returns its root.
func NewProject(t *testing.T, files ...string) string {
	t.Helper()

	_, root := SetupTestGitRepo(t)
	if err := os.MkdirAll(filepath.Join(root, "docs", "api"), 0o750); err != nil {
		t.Fatalf("failed to create anchor: %v", err)
	}
	WriteSources(t, root, files...)
	return root
}

// WriteSources creates slash-separated files below root.
func WriteSources(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("failed to create %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(SourceContent), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
}

// ReadOutput returns name -> content for every file in dir.
func ReadOutput(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		// #nosec G304 - test helper
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("failed to read %s: %v", e.Name(), err)
		}
		out[e.Name()] = string(b)
	}
	return out
}
