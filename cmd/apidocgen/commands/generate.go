package commands

import (
	"fmt"

	"git.home.luguber.info/inful/apidocgen/internal/build"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct{}

func (g *GenerateCmd) Run(glob *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	rec, flush := root.recorder()
	defer flush()

	ctx, cancel := signalContext()
	defer cancel()

	result, err := build.NewService().WithRecorder(rec).Run(ctx, build.Request{Config: cfg})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(glob.out(), "Generated %d documents (%d folders, %d functions) in %s\n",
		len(result.Documents), result.Folders, result.Files, result.OutputDir)
	return nil
}
