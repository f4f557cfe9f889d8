// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/johnsaigle/ghprofile/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/johnsaigle/ghprofile/pkg/buildinfo.DefaultToken=$GH_TOKEN"
package buildinfo

import (
	"fmt"

	"golang.org/x/mod/semver"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"

	// DefaultToken is the build-configured GitHub credential. Empty means
	// unauthenticated unless a token is supplied at runtime.
	DefaultToken = ""
)

// SemVer returns Version in canonical semver form, or v0.0.0-dev when the
// build carries no valid version.
func SemVer() string {
	if v := semver.Canonical(Version); v != "" {
		return v
	}
	return "v0.0.0-dev"
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "ghprofile/" + SemVer()
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
