package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/apidocgen/internal/build"
	"git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/apidocgen/internal/testutil/testutils"
)

// runCLI parses args and runs the selected command with output captured.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("apidocgen"),
		kong.Vars{"version": "test"},
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = kctx.Run(&Global{Logger: slog.Default(), Out: &buf}, &cli)
	return buf.String(), err
}

func exitCode(err error) int {
	return errors.NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithOutput(io.Discard).
		ExitCodeFor(err)
}

// chdirProject creates a git project with sources and makes it the working directory.
func chdirProject(t *testing.T, files ...string) string {
	t.Helper()
	root := helpers.NewProject(t, files...)
	t.Chdir(root)
	return root
}

func TestGenerate_IsDefaultCommand(t *testing.T) {
	root := chdirProject(t, "a/x.m", "a/b/y.m")

	out, err := runCLI(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 4 documents (2 folders, 2 functions)")

	for _, name := range []string{"index.rst", "a.rst", "a.b.rst", "conf.py"} {
		assert.FileExists(t, filepath.Join(root, "docs", "api", "sphinx_src", name))
	}
}

func TestGenerate_WrongDirectory(t *testing.T) {
	root := chdirProject(t, "a/x.m")
	t.Chdir(filepath.Join(root, "docs", "api"))

	_, err := runCLI(t, "generate")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))
	assert.Contains(t, err.Error(), "The current working directory is not "+root+".")
	assert.NoDirExists(t, filepath.Join(root, "docs", "api", "sphinx_src"))
}

func TestGenerate_MissingConfigFile(t *testing.T) {
	chdirProject(t, "a/x.m")

	_, err := runCLI(t, "--config", "nope.yaml", "generate")
	require.Error(t, err)
	assert.Equal(t, 7, exitCode(err))
}

func TestGenerate_MetricsFile(t *testing.T) {
	root := chdirProject(t, "a/x.m")
	metricsPath := filepath.Join(root, "apidocgen.prom")

	_, err := runCLI(t, "--metrics-file", metricsPath)
	require.NoError(t, err)

	// #nosec G304 - test file
	b, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), `apidocgen_run_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, string(b), "apidocgen_documents_written_total 3")
}

func TestCheck_StaleThenCurrent(t *testing.T) {
	chdirProject(t, "a/x.m")

	out, err := runCLI(t, "check")
	require.Error(t, err)
	assert.ErrorIs(t, err, build.ErrStale)
	assert.True(t, errors.HasCategory(err, errors.CategoryStale))
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, "--- index.rst (missing)\n")
	assert.Contains(t, out, "+.. autofunction:: a.x\n")

	_, err = runCLI(t, "generate")
	require.NoError(t, err)

	out, err = runCLI(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "All 3 documents")
}

func TestCheck_StaleIsReportedWithoutErrorLog(t *testing.T) {
	chdirProject(t, "a/x.m")

	_, err := runCLI(t, "check", "-q")
	require.Error(t, err)

	var out, logs bytes.Buffer
	code := errors.NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil))).
		WithOutput(&out).
		Handle(err)
	assert.Equal(t, 1, code)
	assert.Empty(t, logs.String())
	assert.True(t, strings.HasPrefix(out.String(), "Error: check failed: generated documents are out of date: 3 of 3 documents in "))
}

func TestCheck_QuietOmitsDiff(t *testing.T) {
	chdirProject(t, "a/x.m")

	out, err := runCLI(t, "check", "-q")
	require.Error(t, err)
	assert.Contains(t, out, "--- a.rst (missing)\n")
	assert.NotContains(t, out, "autofunction")
}

func TestList_Flat(t *testing.T) {
	chdirProject(t, "a/x.m", "a/b/y.m", "docs/api/gen.m")

	out, err := runCLI(t, "list", "--flat", "--color=never")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"folder  a",
		"folder  a.b",
		"file    a.b.y",
		"file    a.x",
		"2 folders, 2 functions",
	}, "\n")+"\n", out)
}

func TestList_Tree(t *testing.T) {
	chdirProject(t, "a/x.m", "a/b/y.m")

	out, err := runCLI(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "a/\n  b/\n    y\n  x\n2 folders, 2 functions\n", out)
}

func TestList_ColorAlways(t *testing.T) {
	chdirProject(t, "a/x.m")

	out, err := runCLI(t, "list", "--color=always")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := runCLI(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, filepath.Join(dir, DefaultConfigFile))

	_, err = runCLI(t, "init")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = runCLI(t, "init", "--force")
	require.NoError(t, err)

	custom := filepath.Join(dir, "conf", "custom.yaml")
	_, err = runCLI(t, "-c", custom, "init")
	require.NoError(t, err)
	assert.FileExists(t, custom)
}

func TestInit_ConfigRoundTripsThroughGenerate(t *testing.T) {
	root := chdirProject(t, "a/x.m")

	_, err := runCLI(t, "init")
	require.NoError(t, err)
	_, err = runCLI(t, "-c", DefaultConfigFile, "generate")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "docs", "api", "sphinx_src", "a.rst"))
}
