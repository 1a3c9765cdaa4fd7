package build

import (
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/config"
)

// Mode selects what a run does with the rendered documents.
type Mode string

const (
	// ModeGenerate writes every document to the output directory.
	ModeGenerate Mode = "generate"
	// ModeCheck compares rendered documents with the files on disk and writes nothing.
	ModeCheck Mode = "check"
)

// Request contains all inputs required to execute a run.
type Request struct {
	// Config is the resolved configuration for this run.
	Config config.Config

	// Mode defaults to ModeGenerate.
	Mode Mode
}

// Result contains the outcome of a run.
type Result struct {
	RunID  string
	Status Status

	// Root is the verified project root; OutputDir is absolute.
	Root      string
	OutputDir string

	Folders int
	Files   int

	// Documents lists document names in render order. In generate mode
	// these are the files written.
	Documents []string

	// Stale lists documents that differ from disk (check mode only).
	Stale []StaleDocument

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// StaleDocument describes one out-of-date document found in check mode.
type StaleDocument struct {
	Name    string
	Missing bool
	// Diff is a line diff from the on-disk content to the rendered content.
	Diff string
}

// Status represents the outcome of a run.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusStale    Status = "stale"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// IsSuccess reports whether the run completed and the output is current.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

func (r *Result) finish(status Status) {
	r.Status = status
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
