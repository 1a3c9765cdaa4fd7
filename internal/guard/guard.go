package guard

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// Source names how the project root was resolved.
type Source string

const (
	// SourceExplicit is a configured project_root.
	SourceExplicit Source = "explicit"
	// SourceGit is an anchor directory found inside the enclosing git worktree.
	SourceGit Source = "git"
	// SourceAnchor is an anchor directory found outside any git worktree.
	SourceAnchor Source = "anchor"
)

// Guard resolves the project root and compares it with the working directory.
type Guard struct {
	explicitRoot string
	anchorDir    string
}

// New creates a guard from the run configuration.
func New(cfg config.Config) *Guard {
	return &Guard{explicitRoot: cfg.ProjectRoot, anchorDir: cfg.AnchorDir}
}

// Resolve returns the canonical project root as seen from cwd.
func (g *Guard) Resolve(cwd string) (string, Source, error) {
	cwd, err := canonical(cwd)
	if err != nil {
		return "", "", fmt.Errorf("%w: working directory %s: %w", ErrNoProjectRoot, cwd, err)
	}

	if g.explicitRoot != "" {
		root := g.explicitRoot
		if !filepath.IsAbs(root) {
			root = filepath.Join(cwd, root)
		}
		root, err = canonical(root)
		if err != nil {
			return "", "", fmt.Errorf("%w: project root %s: %w", ErrNoProjectRoot, g.explicitRoot, err)
		}
		return root, SourceExplicit, nil
	}

	// The worktree top bounds the anchor search so a checkout never
	// resolves to an unrelated parent directory.
	top, inRepo := gitRoot(cwd)
	source := SourceAnchor
	if inRepo {
		source = SourceGit
	}
	if root, ok := anchorRoot(cwd, g.anchorDir, top); ok {
		return root, source, nil
	}

	if inRepo {
		return "", "", fmt.Errorf("%w: no %s between %s and worktree root %s", ErrNoProjectRoot, g.anchorDir, cwd, top)
	}
	return "", "", fmt.Errorf("%w: no %s above %s", ErrNoProjectRoot, g.anchorDir, cwd)
}

// Check passes when cwd is the project root and returns that root.
// A mismatch yields a *MismatchError wrapping ErrWrongDirectory.
func (g *Guard) Check(cwd string) (string, error) {
	root, source, err := g.Resolve(cwd)
	if err != nil {
		return "", err
	}
	actual, err := canonical(cwd)
	if err != nil {
		return "", fmt.Errorf("%w: working directory %s: %w", ErrNoProjectRoot, cwd, err)
	}
	if actual != root {
		slog.Debug("Working directory mismatch",
			slog.String("cwd", actual),
			logfields.Root(root),
			slog.String("source", string(source)))
		return root, &MismatchError{Cwd: actual, Expected: root, Source: source}
	}
	slog.Debug("Working directory guard passed", logfields.Root(root), slog.String("source", string(source)))
	return root, nil
}

// CheckWorkingDir runs Check against the process working directory.
func (g *Guard) CheckWorkingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoProjectRoot, err)
	}
	return g.Check(cwd)
}

func gitRoot(cwd string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(cwd, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			slog.Debug("Git repository detection failed", logfields.Path(cwd), logfields.Error(err))
		}
		return "", false
	}
	wt, err := repo.Worktree()
	if err != nil {
		slog.Debug("Git repository has no worktree", logfields.Path(cwd), logfields.Error(err))
		return "", false
	}
	root, err := canonical(wt.Filesystem.Root())
	if err != nil {
		return "", false
	}
	return root, true
}

// anchorRoot returns the nearest directory at or above cwd that contains
// anchor. The walk stops after stop when stop is set.
func anchorRoot(cwd, anchor, stop string) (string, bool) {
	if anchor == "" {
		return "", false
	}
	for dir := cwd; ; {
		if info, err := os.Stat(filepath.Join(dir, anchor)); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if dir == stop || parent == dir {
			return "", false
		}
		dir = parent
	}
}

// canonical returns an absolute, symlink-free path.
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, err
	}
	return resolved, nil
}
