package formatter

import (
	"encoding/json"
	"io"
	"time"

	"github.com/johnsaigle/ghprofile/pkg/buildinfo"
	"github.com/johnsaigle/ghprofile/pkg/viewer"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	opts Options
}

// JSONOutput represents the JSON output structure
type JSONOutput struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	viewer.Snapshot
}

// Format writes the snapshot in JSON format
func (f *JSONFormatter) Format(w io.Writer, snap viewer.Snapshot) error {
	output := JSONOutput{
		Timestamp: f.opts.now(),
		Version:   buildinfo.Version,
		Snapshot:  snap,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// ShouldExit returns the exit code for the snapshot
func (f *JSONFormatter) ShouldExit(snap viewer.Snapshot) int {
	return exitCode(f.opts, snap)
}
