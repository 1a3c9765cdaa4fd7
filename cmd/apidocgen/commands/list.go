package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"git.home.luguber.info/inful/apidocgen/internal/build"
	"git.home.luguber.info/inful/apidocgen/internal/scan"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	Flat  bool   `help:"Print one dotted name per line with its kind instead of a tree"`
	Color string `enum:"auto,always,never" default:"auto" help:"Colorize output (auto, always, never)"`
}

func (l *ListCmd) Run(glob *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	entries, err := build.NewService().Entries(ctx, cfg)
	if err != nil {
		return err
	}

	out := glob.out()
	p := newListPrinter(out, l.useColor(out))
	for _, e := range entries {
		if l.Flat {
			p.flat(e)
		} else {
			p.tree(e)
		}
	}
	folders, files := scan.Count(entries)
	_, _ = fmt.Fprintf(out, "%d folders, %d functions\n", folders, files)
	return nil
}

func (l *ListCmd) useColor(w io.Writer) bool {
	switch l.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type listPrinter struct {
	out    io.Writer
	folder *color.Color
	file   *color.Color
}

func newListPrinter(out io.Writer, useColor bool) *listPrinter {
	p := &listPrinter{
		out:    out,
		folder: color.New(color.FgCyan, color.Bold),
		file:   color.New(color.FgGreen),
	}
	if useColor {
		p.folder.EnableColor()
		p.file.EnableColor()
	} else {
		p.folder.DisableColor()
		p.file.DisableColor()
	}
	return p
}

func (p *listPrinter) flat(e scan.Entry) {
	c := p.file
	if e.Kind == scan.Folder {
		c = p.folder
	}
	_, _ = fmt.Fprintf(p.out, "%-6s  %s\n", e.Kind, c.Sprint(e.Name))
}

func (p *listPrinter) tree(e scan.Entry) {
	indent := strings.Repeat("  ", e.Depth())
	leaf := e.Name[strings.LastIndex(e.Name, ".")+1:]
	if e.Kind == scan.Folder {
		_, _ = fmt.Fprintf(p.out, "%s%s/\n", indent, p.folder.Sprint(leaf))
		return
	}
	_, _ = fmt.Fprintf(p.out, "%s%s\n", indent, p.file.Sprint(leaf))
}
