package sphinx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// Writer persists documents into a single output directory. Every write
// overwrites the target; nothing is rolled back when a later write fails.
type Writer struct {
	dir string
}

// NewWriter creates a writer for dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Prepare creates the output directory and its parents.
func (w *Writer) Prepare() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputDir, w.dir, err)
	}
	return nil
}

// Path returns the on-disk location of a document.
func (w *Writer) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(w.dir, name), nil
}

// Write overwrites one document and returns its path.
func (w *Writer) Write(doc Document) (string, error) {
	path, err := w.Path(doc.Name)
	if err != nil {
		return "", err
	}
	// #nosec G306 -- generated documentation is public content
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	slog.Debug("Wrote document", logfields.Document(doc.Name), logfields.Path(path))
	return path, nil
}

// WriteAll writes documents in order and stops at the first failure.
// It returns the number of documents written.
func (w *Writer) WriteAll(docs []Document) (int, error) {
	for i, doc := range docs {
		if _, err := w.Write(doc); err != nil {
			return i, err
		}
	}
	return len(docs), nil
}

// Read returns the current on-disk content of a document. A missing file
// yields (nil, false, nil).
func (w *Writer) Read(name string) ([]byte, bool, error) {
	path, err := w.Path(name)
	if err != nil {
		return nil, false, err
	}
	// #nosec G304 -- path is confined to the output directory
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}
