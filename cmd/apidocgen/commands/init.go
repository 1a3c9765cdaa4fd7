package commands

import (
	"fmt"

	"git.home.luguber.info/inful/apidocgen/internal/config"
)

// DefaultConfigFile is written by 'init' when no --config path is given.
const DefaultConfigFile = "apidocgen.yaml"

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(glob *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = DefaultConfigFile
	}
	out := glob.out()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
