// Package scan walks a source tree and derives the dotted Folder/File hierarchy
// that the documentation is generated from.
package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// Options controls what qualifies and what is excluded.
type Options struct {
	// Extension marks qualifying source files (case-sensitive suffix, e.g. ".m").
	Extension string
	// SkipPrefix excludes raw entry names during traversal; matching directories are never entered.
	SkipPrefix string
	// IgnorePrefixes drop entries whose dotted name starts with any of them.
	IgnorePrefixes []string
}

// OptionsFromConfig derives scanner options from the run configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Extension:      cfg.SourceExtension,
		SkipPrefix:     cfg.SkipPrefix,
		IgnorePrefixes: cfg.Ignores(),
	}
}

// Scanner enumerates a tree exposed as an fs.FS. The real filesystem is
// served through os.DirFS; tests use testing/fstest.MapFS.
type Scanner struct {
	fsys fs.FS
	opts Options
}

// New creates a scanner over fsys.
func New(fsys fs.FS, opts Options) *Scanner {
	return &Scanner{fsys: fsys, opts: opts}
}

// NewOS creates a scanner rooted at a directory on the local filesystem.
func NewOS(root string, opts Options) *Scanner {
	return New(os.DirFS(root), opts)
}

// Scan walks the tree depth-first and returns the filtered entries sorted by name.
// A listing failure anywhere aborts the scan.
func (s *Scanner) Scan() ([]Entry, error) {
	return s.scanDir(".", nil)
}

// scanDir returns an owned, filtered and sorted slice for one directory.
// Filtering before the emptiness check keeps a folder only when something
// below it survives the ignore list.
func (s *Scanner) scanDir(dir string, segments []string) ([]Entry, error) {
	children, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrListDir, dir, err)
	}

	var out []Entry
	for _, child := range children {
		name := child.Name()
		if strings.HasPrefix(name, s.opts.SkipPrefix) {
			continue
		}

		childPath := path.Join(dir, name)
		childSegments := append(slices.Clip(segments), name)
		dotted := strings.Join(childSegments, ".")

		if s.isDir(childPath, child) {
			sub, err := s.scanDir(childPath, childSegments)
			if err != nil {
				return nil, err
			}
			if len(sub) > 0 {
				out = append(out, Entry{Name: dotted, Kind: Folder})
				out = append(out, sub...)
			}
			continue
		}

		if strings.HasSuffix(name, s.opts.Extension) {
			entry := Entry{Name: strings.TrimSuffix(dotted, s.opts.Extension), Kind: File}
			out = append(out, entry)
			slog.Debug("Discovered source file", logfields.Name(entry.Name), logfields.Path(childPath))
		}
	}

	out = s.filter(out)
	sortEntries(out)
	return out, nil
}

// isDir follows symlinks. A dangling link is treated as a plain file.
func (s *Scanner) isDir(p string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.IsDir()
	}
	info, err := fs.Stat(s.fsys, p)
	if err != nil {
		slog.Debug("Unresolvable symlink", logfields.Path(p), logfields.Error(err))
		return false
	}
	return info.IsDir()
}

func (s *Scanner) filter(entries []Entry) []Entry {
	if len(s.opts.IgnorePrefixes) == 0 {
		return entries
	}
	return slices.DeleteFunc(entries, func(e Entry) bool {
		return Ignored(e.Name, s.opts.IgnorePrefixes)
	})
}

// Ignored reports whether name starts with any prefix. This is a plain string
// prefix test, not a dotted-segment match: "a.b" also ignores "a.bc".
func Ignored(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return int(a.Kind) - int(b.Kind)
	})
}
