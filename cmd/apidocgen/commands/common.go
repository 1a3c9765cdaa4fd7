package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/metrics"
)

// Global is passed to every command's Run method.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing command output (stdout by default).
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path (optional; built-in defaults otherwise)"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	ProjectRoot string           `name:"project-root" help:"Project root the command must run from (default: git worktree or directory containing docs/api)"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in text format to this file after the run"`

	Generate GenerateCmd `cmd:"" default:"1" help:"Generate the Sphinx stubs into the output directory (default)"`
	Check    CheckCmd    `cmd:"" help:"Report generated files that are missing or out of date; writes nothing"`
	List     ListCmd     `cmd:"" help:"List the folders and functions that would be documented"`
	Watch    WatchCmd    `cmd:"" help:"Generate, then regenerate whenever sources change"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig loads the configuration and applies flag overrides.
func (c *CLI) LoadConfig() (config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return config.Config{}, err
	}
	if c.ProjectRoot != "" {
		cfg.ProjectRoot = c.ProjectRoot
	}
	return cfg, nil
}

// recorder returns the metrics recorder for this invocation and a flush
// function that persists it. Without --metrics-file both are no-ops.
func (c *CLI) recorder() (metrics.Recorder, func()) {
	if c.MetricsFile == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
	return rec, func() {
		if err := rec.WriteTextfile(c.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(c.MetricsFile), logfields.Error(err))
		}
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
