package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocgen/internal/guard"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/metrics"
	"git.home.luguber.info/inful/apidocgen/internal/observability"
	"git.home.luguber.info/inful/apidocgen/internal/scan"
	"git.home.luguber.info/inful/apidocgen/internal/sphinx"
)

const (
	stageGuard   = "guard"
	stageScan    = "scan"
	stageRender  = "render"
	stageWrite   = "write"
	stageCompare = "compare"
)

// Service executes generator runs.
type Service struct {
	recorder metrics.Recorder
	getwd    func() (string, error)
	newRunID func() string
}

// NewService creates a Service with a no-op recorder that runs from the
// process working directory.
func NewService() *Service {
	return &Service{
		recorder: metrics.NoopRecorder{},
		getwd:    os.Getwd,
		newRunID: uuid.NewString,
	}
}

// WithRecorder injects a metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithWorkingDir fixes the directory the guard checks (for testing and watch mode).
func (s *Service) WithWorkingDir(dir string) *Service {
	s.getwd = func() (string, error) { return dir, nil }
	return s
}

// Run executes the pipeline. The returned Result is never nil.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{RunID: s.newRunID(), StartTime: time.Now()}
	ctx = observability.WithRunID(ctx, result.RunID)
	if req.Mode == "" {
		req.Mode = ModeGenerate
	}
	cfg := req.Config

	if err := cfg.Validate(); err != nil {
		return s.fail(ctx, result, "", err)
	}

	// Stage 1: working directory guard
	stageStart := time.Now()
	ctx = observability.WithStage(ctx, stageGuard)
	root, err := s.checkRoot(cfg)
	if err != nil {
		return s.fail(ctx, result, stageGuard, err)
	}
	result.Root = root
	result.OutputDir = cfg.OutputDir
	if !filepath.IsAbs(result.OutputDir) {
		result.OutputDir = filepath.Join(root, cfg.OutputDir)
	}
	s.stageDone(stageGuard, stageStart)

	if err := ctx.Err(); err != nil {
		return s.cancel(ctx, result, stageScan, err)
	}

	// Stage 2: scan
	stageStart = time.Now()
	ctx = observability.WithStage(ctx, stageScan)
	observability.InfoContext(ctx, "Scanning source tree", logfields.Root(root))
	entries, err := scan.NewOS(root, scan.OptionsFromConfig(cfg)).Scan()
	if err != nil {
		return s.fail(ctx, result, stageScan,
			errors.ScanError("failed to scan source tree").WithCause(err).WithContext("root", root).Build())
	}
	result.Folders, result.Files = scan.Count(entries)
	s.recorder.SetEntries(scan.Folder.String(), result.Folders)
	s.recorder.SetEntries(scan.File.String(), result.Files)
	s.stageDone(stageScan, stageStart)
	observability.DebugContext(ctx, "Scan complete",
		slog.Int("folders", result.Folders),
		slog.Int("files", result.Files))

	if err := ctx.Err(); err != nil {
		return s.cancel(ctx, result, stageRender, err)
	}

	// Stage 3: render
	stageStart = time.Now()
	ctx = observability.WithStage(ctx, stageRender)
	renderer, err := sphinx.NewRenderer(cfg)
	if err != nil {
		return s.fail(ctx, result, stageRender,
			errors.RenderError("failed to load document templates").WithCause(err).Build())
	}
	docs, err := renderer.RenderAll(entries)
	if err != nil {
		return s.fail(ctx, result, stageRender,
			errors.RenderError("failed to render documents").WithCause(err).Build())
	}
	for _, d := range docs {
		result.Documents = append(result.Documents, d.Name)
	}
	s.stageDone(stageRender, stageStart)

	if err := ctx.Err(); err != nil {
		return s.cancel(ctx, result, stageWrite, err)
	}

	writer := sphinx.NewWriter(result.OutputDir)
	if req.Mode == ModeCheck {
		return s.compare(ctx, result, writer, docs)
	}
	return s.write(ctx, result, writer, docs)
}

// Entries runs the guard and the scan only and returns the filtered entries.
func (s *Service) Entries(ctx context.Context, cfg config.Config) ([]scan.Entry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root, err := s.checkRoot(cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := scan.NewOS(root, scan.OptionsFromConfig(cfg)).Scan()
	if err != nil {
		return nil, errors.ScanError("failed to scan source tree").WithCause(err).WithContext("root", root).Build()
	}
	return entries, nil
}

func (s *Service) write(ctx context.Context, result *Result, writer *sphinx.Writer, docs []sphinx.Document) (*Result, error) {
	stageStart := time.Now()
	ctx = observability.WithStage(ctx, stageWrite)
	if err := writer.Prepare(); err != nil {
		return s.fail(ctx, result, stageWrite,
			errors.FileSystemError("failed to create output directory").WithCause(err).WithContext("output", writer.Dir()).Build())
	}
	n, err := writer.WriteAll(docs)
	s.recorder.AddDocumentsWritten(n)
	if err != nil {
		return s.fail(ctx, result, stageWrite,
			errors.FileSystemError("failed to write documents").WithCause(err).WithContext("written", n).Build())
	}
	s.stageDone(stageWrite, stageStart)

	result.finish(StatusSuccess)
	s.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	s.recorder.ObserveRunDuration(result.Duration)
	observability.InfoContext(ctx, "Documentation stubs generated",
		logfields.Output(writer.Dir()),
		logfields.Count(n),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

func (s *Service) compare(ctx context.Context, result *Result, writer *sphinx.Writer, docs []sphinx.Document) (*Result, error) {
	stageStart := time.Now()
	ctx = observability.WithStage(ctx, stageCompare)
	stale, err := Compare(writer, docs)
	if err != nil {
		return s.fail(ctx, result, stageCompare,
			errors.FileSystemError("failed to read generated documents").WithCause(err).WithContext("output", writer.Dir()).Build())
	}
	result.Stale = stale
	s.stageDone(stageCompare, stageStart)

	status, outcome := StatusSuccess, metrics.OutcomeSuccess
	if len(stale) > 0 {
		status, outcome = StatusStale, metrics.OutcomeStale
	}
	result.finish(status)
	s.recorder.IncRunOutcome(outcome)
	s.recorder.ObserveRunDuration(result.Duration)
	observability.InfoContext(ctx, "Documentation stubs checked",
		logfields.Output(writer.Dir()),
		slog.Int("stale", len(stale)),
		slog.String("status", string(status)))
	return result, nil
}

func (s *Service) checkRoot(cfg config.Config) (string, error) {
	cwd, err := s.getwd()
	if err != nil {
		return "", errors.PreconditionError("cannot determine working directory").WithCause(err).Build()
	}
	root, err := guard.New(cfg).Check(cwd)
	if err == nil {
		return root, nil
	}
	var mismatch *guard.MismatchError
	if stderrors.As(err, &mismatch) {
		return "", errors.PreconditionError("working directory check failed").
			WithCause(err).
			WithContext("expected", mismatch.Expected).
			WithContext("cwd", mismatch.Cwd).
			Build()
	}
	return "", errors.PreconditionError("cannot resolve project root").WithCause(err).WithContext("cwd", cwd).Build()
}

func (s *Service) stageDone(stage string, start time.Time) {
	s.recorder.ObserveStageDuration(stage, time.Since(start))
	s.recorder.IncStageResult(stage, metrics.ResultSuccess)
}

func (s *Service) fail(ctx context.Context, result *Result, stage string, err error) (*Result, error) {
	result.finish(StatusFailed)
	if stage != "" {
		s.recorder.IncStageResult(stage, metrics.ResultFatal)
	}
	s.recorder.IncRunOutcome(metrics.OutcomeFailed)
	observability.DebugContext(ctx, "Run failed", logfields.Error(err))
	return result, err
}

func (s *Service) cancel(ctx context.Context, result *Result, stage string, err error) (*Result, error) {
	result.finish(StatusCanceled)
	s.recorder.IncStageResult(stage, metrics.ResultCanceled)
	s.recorder.IncRunOutcome(metrics.OutcomeCanceled)
	observability.WarnContext(ctx, "Run canceled")
	return result, err
}
