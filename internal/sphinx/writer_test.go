package sphinx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_PrepareCreatesParents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs", "api", "sphinx_src")
	w := NewWriter(dir)

	require.NoError(t, w.Prepare())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	// Preparing an existing directory is not an error.
	require.NoError(t, w.Prepare())
}

func TestWriter_PrepareFailsOnFile(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "docs")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o600))

	err := NewWriter(filepath.Join(blocker, "api")).Prepare()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutputDir)
}

func TestWriter_WriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rst"), []byte("stale content that is longer"), 0o600))

	path, err := w.Write(Document{Name: "a.rst", Content: []byte("fresh\n")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.rst"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(got))
}

func TestWriter_RejectsEscapingNames(t *testing.T) {
	w := NewWriter(t.TempDir())
	for _, name := range []string{"", "../evil.rst", "sub/a.rst", "..", "."} {
		_, err := w.Write(Document{Name: name, Content: []byte("x")})
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestWriter_AcceptsLeadingDotNames(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	for _, name := range []string{"..x.rst", ".hidden.rst"} {
		path, err := w.Write(Document{Name: name, Content: []byte("x")})
		require.NoError(t, err, name)
		assert.Equal(t, filepath.Join(dir, name), path)
		assert.FileExists(t, path)
	}
}

func TestWriter_WriteAllStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	docs := []Document{
		{Name: "index.rst", Content: []byte("i")},
		{Name: "bad/name.rst", Content: []byte("b")},
		{Name: "conf.py", Content: []byte("c")},
	}

	n, err := w.WriteAll(docs)
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(dir, "index.rst"))
	assert.NoFileExists(t, filepath.Join(dir, "conf.py"))
}

func TestWriter_WriteFailsWithoutDirectory(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "missing"))
	_, err := w.Write(Document{Name: "index.rst", Content: []byte("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
}

func TestWriter_Read(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	_, ok, err := w.Read("index.rst")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = w.Write(Document{Name: "index.rst", Content: []byte("body")})
	require.NoError(t, err)
	got, ok, err := w.Read("index.rst")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "body", string(got))
}
