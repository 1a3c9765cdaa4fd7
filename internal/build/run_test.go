package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	apperrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocgen/internal/guard"
	"git.home.luguber.info/inful/apidocgen/internal/metrics"
	helpers "git.home.luguber.info/inful/apidocgen/internal/testutil/testutils"
)

// testRecorder counts recorder calls.
type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[metrics.ResultLabel]int
	runDurations   int
	outcomes       map[metrics.OutcomeLabel]int
	entries        map[string]int
	written        int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[metrics.ResultLabel]int{},
		outcomes:       map[metrics.OutcomeLabel]int{},
		entries:        map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) { t.stageDurations[stage]++ }
func (t *testRecorder) ObserveRunDuration(_ time.Duration)                 { t.runDurations++ }
func (t *testRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[metrics.ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncRunOutcome(outcome metrics.OutcomeLabel) { t.outcomes[outcome]++ }
func (t *testRecorder) SetEntries(kind string, n int)            { t.entries[kind] = n }
func (t *testRecorder) AddDocumentsWritten(n int)                { t.written += n }

func newProject(t *testing.T, files ...string) string {
	t.Helper()
	return helpers.NewProject(t, files...)
}

func outputFiles(t *testing.T, root string) map[string]string {
	t.Helper()
	return helpers.ReadOutput(t, filepath.Join(root, "docs", "api", "sphinx_src"))
}

func TestStatus_IsSuccess(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusSuccess, true},
		{StatusStale, false},
		{StatusFailed, false},
		{StatusCanceled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsSuccess())
		})
	}
}

func TestRun_IgnoredSubfolderScenario(t *testing.T) {
	root := newProject(t, "a/x.m", "a/b/y.m")
	cfg := config.Default()
	cfg.IgnorePrefixes = []string{"a.b"}

	result, err := NewService().WithWorkingDir(root).Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, []string{"index.rst", "a.rst", "conf.py"}, result.Documents)
	assert.Equal(t, 1, result.Folders)
	assert.Equal(t, 1, result.Files)
	assert.NotEmpty(t, result.RunID)

	files := outputFiles(t, root)
	require.Len(t, files, 3)
	assert.True(t, strings.HasSuffix(files["index.rst"], ":maxdepth: 1\n\n   a\n"))
	assert.Contains(t, files["a.rst"], ".. autofunction:: a.x\n")
	assert.NotContains(t, files["a.rst"], "a.b")
	assert.NotContains(t, files, "a.b.rst")
}

func TestRun_EmptyTreeWritesIndexAndConf(t *testing.T) {
	root := newProject(t, "README.md")

	result, err := NewService().WithWorkingDir(root).Run(context.Background(), Request{Config: config.Default()})
	require.NoError(t, err)
	assert.Equal(t, []string{"index.rst", "conf.py"}, result.Documents)

	files := outputFiles(t, root)
	assert.Len(t, files, 2)
	assert.True(t, strings.HasSuffix(files["index.rst"], "   :maxdepth: 1\n\n"))
}

func TestRun_Idempotent(t *testing.T) {
	root := newProject(t, "entanglement_theory/negativity.m", "entanglement_theory/measures/rains.m", "utils/ket.m")
	svc := NewService().WithWorkingDir(root)

	_, err := svc.Run(context.Background(), Request{Config: config.Default()})
	require.NoError(t, err)
	first := outputFiles(t, root)

	second, err := svc.Run(context.Background(), Request{Config: config.Default()})
	require.NoError(t, err)
	assert.Equal(t, first, outputFiles(t, root))
	assert.NotEqual(t, "", second.RunID)
}

func TestRun_WrongWorkingDirectoryWritesNothing(t *testing.T) {
	root := newProject(t, "a/x.m")
	sub := filepath.Join(root, "docs", "api")

	result, err := NewService().WithWorkingDir(sub).Run(context.Background(), Request{Config: config.Default()})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, result.Status)
	assert.True(t, apperrors.HasCategory(err, apperrors.CategoryPrecondition))
	assert.ErrorIs(t, err, guard.ErrWrongDirectory)
	assert.Contains(t, err.Error(), "The current working directory is not "+root+".")

	_, statErr := os.Stat(filepath.Join(root, "docs", "api", "sphinx_src"))
	assert.True(t, os.IsNotExist(statErr), "output directory must not be created")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.SourceExtension = "m"

	result, err := NewService().WithWorkingDir(t.TempDir()).Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, result.Status)
	assert.True(t, apperrors.HasCategory(err, apperrors.CategoryValidation))
}

func TestRun_OutputDirectoryBlocked(t *testing.T) {
	root := newProject(t, "a/x.m")
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "api", "sphinx_src"), []byte("file"), 0o600))

	_, err := NewService().WithWorkingDir(root).Run(context.Background(), Request{Config: config.Default()})
	require.Error(t, err)
	assert.True(t, apperrors.HasCategory(err, apperrors.CategoryFileSystem))
}

func TestRun_CustomOutputDir(t *testing.T) {
	root := newProject(t, "a/x.m")
	cfg := config.Default()
	cfg.OutputDir = filepath.Join("build", "sphinx")

	result, err := NewService().WithWorkingDir(root).Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "build", "sphinx"), result.OutputDir)
	assert.FileExists(t, filepath.Join(root, "build", "sphinx", "a.rst"))
}

func TestRun_CanceledContext(t *testing.T) {
	root := newProject(t, "a/x.m")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewService().WithWorkingDir(root).Run(ctx, Request{Config: config.Default()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StatusCanceled, result.Status)
}

func TestRun_CheckMode(t *testing.T) {
	root := newProject(t, "a/x.m", "a/y.m")
	svc := NewService().WithWorkingDir(root)
	check := Request{Config: config.Default(), Mode: ModeCheck}

	result, err := svc.Run(context.Background(), check)
	require.NoError(t, err)
	assert.Equal(t, StatusStale, result.Status)
	require.Len(t, result.Stale, 3)
	for _, s := range result.Stale {
		assert.True(t, s.Missing, s.Name)
	}
	_, statErr := os.Stat(filepath.Join(root, "docs", "api", "sphinx_src"))
	assert.True(t, os.IsNotExist(statErr), "check mode must not write")

	_, err = svc.Run(context.Background(), Request{Config: config.Default()})
	require.NoError(t, err)

	result, err = svc.Run(context.Background(), check)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Empty(t, result.Stale)

	require.NoError(t, os.Remove(filepath.Join(root, "a", "y.m")))
	result, err = svc.Run(context.Background(), check)
	require.NoError(t, err)
	assert.Equal(t, StatusStale, result.Status)
	require.Len(t, result.Stale, 1)
	assert.Equal(t, "a.rst", result.Stale[0].Name)
	assert.False(t, result.Stale[0].Missing)
	assert.Contains(t, result.Stale[0].Diff, "-.. autofunction:: a.y\n")
}

func TestRun_RecordsMetrics(t *testing.T) {
	root := newProject(t, "a/x.m", "a/b/y.m")
	rec := newTestRecorder()

	_, err := NewService().WithRecorder(rec).WithWorkingDir(root).Run(context.Background(), Request{Config: config.Default()})
	require.NoError(t, err)

	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeSuccess])
	assert.Equal(t, 1, rec.runDurations)
	assert.Equal(t, 2, rec.entries["folder"])
	assert.Equal(t, 2, rec.entries["file"])
	assert.Equal(t, 4, rec.written)
	for _, stage := range []string{"guard", "scan", "render", "write"} {
		assert.Equal(t, 1, rec.stageResults[stage][metrics.ResultSuccess], stage)
	}
}

func TestRun_RecordsFailure(t *testing.T) {
	root := newProject(t)
	rec := newTestRecorder()

	_, err := NewService().WithRecorder(rec).WithWorkingDir(filepath.Join(root, "docs")).Run(context.Background(), Request{Config: config.Default()})
	require.Error(t, err)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeFailed])
	assert.Equal(t, 1, rec.stageResults["guard"][metrics.ResultFatal])
}

func TestEntries(t *testing.T) {
	root := newProject(t, "a/x.m", "a/b/y.m", "docs/api/gen.m")

	entries, err := NewService().WithWorkingDir(root).Entries(context.Background(), config.Default())
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "a.x", entries[3].Name)

	_, err = NewService().WithWorkingDir(filepath.Join(root, "a")).Entries(context.Background(), config.Default())
	assert.ErrorIs(t, err, guard.ErrWrongDirectory)
}
