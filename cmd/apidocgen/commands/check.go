package commands

import (
	"fmt"

	"git.home.luguber.info/inful/apidocgen/internal/build"
	"git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Quiet bool `short:"q" help:"Only list stale documents, without diffs"`
}

func (c *CheckCmd) Run(glob *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	rec, flush := root.recorder()
	defer flush()

	ctx, cancel := signalContext()
	defer cancel()

	result, err := build.NewService().WithRecorder(rec).Run(ctx, build.Request{Config: cfg, Mode: build.ModeCheck})
	if err != nil {
		return err
	}

	out := glob.out()
	if result.Status != build.StatusStale {
		_, _ = fmt.Fprintf(out, "All %d documents in %s are up to date\n", len(result.Documents), result.OutputDir)
		return nil
	}
	for _, s := range result.Stale {
		state := "changed"
		if s.Missing {
			state = "missing"
		}
		_, _ = fmt.Fprintf(out, "--- %s (%s)\n", s.Name, state)
		if !c.Quiet {
			_, _ = fmt.Fprint(out, s.Diff)
		}
	}
	return errors.StaleError("check failed").
		WithCause(fmt.Errorf("%w: %d of %d documents in %s", build.ErrStale, len(result.Stale), len(result.Documents), result.OutputDir)).
		WithContext("stale", len(result.Stale)).
		Build()
}
