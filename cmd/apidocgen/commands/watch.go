package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/build"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `default:"300ms" help:"Quiet period after the last change before regenerating"`
}

func (w *WatchCmd) Run(glob *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	rec, flush := root.recorder()
	defer flush()

	ctx, cancel := signalContext()
	defer cancel()

	svc := build.NewService().WithRecorder(rec)
	result, err := svc.Run(ctx, build.Request{Config: cfg})
	if err != nil {
		return err
	}
	out := glob.out()
	_, _ = fmt.Fprintf(out, "Generated %d documents in %s; watching %s\n", len(result.Documents), result.OutputDir, result.Root)

	// Later runs check against the root verified by the first run.
	svc.WithWorkingDir(result.Root)
	regenerate := func(ctx context.Context) error {
		res, err := svc.Run(ctx, build.Request{Config: cfg})
		if err != nil {
			return err
		}
		slog.Info("Regenerated documentation stubs",
			logfields.RunID(res.RunID),
			logfields.Count(len(res.Documents)))
		// Keep the metrics file current while the watcher runs.
		flush()
		return nil
	}

	return watch.New(result.Root, regenerate, watch.Options{
		Extension:  cfg.SourceExtension,
		SkipPrefix: cfg.SkipPrefix,
		Exclude:    []string{result.OutputDir},
		Debounce:   w.Debounce,
	}).Watch(ctx)
}
