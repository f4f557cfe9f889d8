// Package formatter renders viewer snapshots for the terminal.
package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/johnsaigle/ghprofile/pkg/viewer"
)

// Formatter defines the interface for output formatters
type Formatter interface {
	// Format writes the snapshot to output in the specific format
	Format(w io.Writer, snap viewer.Snapshot) error

	// ShouldExit returns the exit code for the snapshot
	// 0 = ready, 1 = query failed
	ShouldExit(snap viewer.Snapshot) int
}

// Options holds configuration options for formatters
type Options struct {
	// Now is the reference time for relative dates. Defaults to time.Now.
	Now func() time.Time

	// Verbose adds repository links and cache details.
	Verbose bool

	// AllRepos lists every repository instead of the current page.
	AllRepos bool

	// NoExitCode makes ShouldExit always return 0.
	NoExitCode bool
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// New creates a formatter based on the format string
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "console", "":
		return &ConsoleFormatter{opts: opts}, nil
	case "json":
		return &JSONFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func exitCode(opts Options, snap viewer.Snapshot) int {
	if opts.NoExitCode {
		return 0
	}
	if snap.State == viewer.Failed {
		return 1
	}
	return 0
}
