package buildinfo

import (
	"strings"
	"testing"
)

func TestSemVer(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	tests := []struct {
		version string
		want    string
	}{
		{"dev", "v0.0.0-dev"},
		{"v1.2.3", "v1.2.3"},
		{"v1.2", "v1.2.0"},
		{"1.2.3", "v0.0.0-dev"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			if got := SemVer(); got != tt.want {
				t.Errorf("SemVer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	if !strings.HasPrefix(UserAgent(), "ghprofile/v") {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
