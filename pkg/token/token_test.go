package token

import (
	"context"
	"testing"

	"github.com/johnsaigle/ghprofile/pkg/buildinfo"
	"github.com/johnsaigle/ghprofile/pkg/store"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		fallback string
		want     string
	}{
		{"user wins", "user-tok", "default-tok", "user-tok"},
		{"default when user empty", "", "default-tok", "default-tok"},
		{"unauthenticated", "", "", ""},
		{"no validation", "not a token", "", "not a token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.user, tt.fallback); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.user, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	orig := buildinfo.DefaultToken
	defer func() { buildinfo.DefaultToken = orig }()

	buildinfo.DefaultToken = ""
	t.Setenv(EnvVar, "")
	if got := Default(""); got != "" {
		t.Errorf("Default() = %q, want empty", got)
	}
	if got := Default("from-config"); got != "from-config" {
		t.Errorf("Default() = %q, want from-config", got)
	}

	t.Setenv(EnvVar, "from-env")
	if got := Default("from-config"); got != "from-env" {
		t.Errorf("Default() = %q, want from-env", got)
	}

	buildinfo.DefaultToken = "from-build"
	if got := Default("from-config"); got != "from-build" {
		t.Errorf("Default() = %q, want from-build", got)
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore(store.NewMemory())

	got, err := s.Get(ctx)
	if err != nil || got != "" {
		t.Fatalf("Get() on empty store = %q, %v", got, err)
	}

	if err := s.Set(ctx, "  ghp_abc123  "); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got, _ := s.Get(ctx); got != "ghp_abc123" {
		t.Errorf("Get() = %q, want ghp_abc123", got)
	}

	if err := s.Set(ctx, ""); err != nil {
		t.Fatalf("Set(\"\") error: %v", err)
	}
	if got, _ := s.Get(ctx); got != "" {
		t.Errorf("Get() after clear = %q, want empty", got)
	}
}

func TestStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv, _ := store.NewFile(dir)
	_ = NewStore(kv).Set(ctx, "ghp_persisted")

	kv2, _ := store.NewFile(dir)
	if got, _ := NewStore(kv2).Get(ctx); got != "ghp_persisted" {
		t.Errorf("Get() after reopen = %q", got)
	}
}

func TestMask(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "(none)"},
		{"abc", "***"},
		{"ghp_1234567890", "**********7890"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
