package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// exercise runs the behaviour every backend must share.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := s.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := s.Set(ctx, "profile:octocat", []byte(`{"login":"octocat"}`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, hit, err := s.Get(ctx, "profile:octocat")
	if err != nil || !hit {
		t.Fatalf("Get() = hit %v, err %v; want hit", hit, err)
	}
	if string(got) != `{"login":"octocat"}` {
		t.Errorf("Get() = %s", got)
	}

	// Overwrite
	if err := s.Set(ctx, "profile:octocat", []byte(`{"login":"octocat","name":"Mona"}`)); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}
	got, _, _ = s.Get(ctx, "profile:octocat")
	if string(got) != `{"login":"octocat","name":"Mona"}` {
		t.Errorf("Get() after overwrite = %s", got)
	}

	_ = s.Set(ctx, "profile:hubot", []byte(`{}`))
	n, err := s.Len(ctx)
	if err != nil {
		t.Fatalf("Len() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}

	if err := s.Delete(ctx, "profile:hubot"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := s.Delete(ctx, "profile:hubot"); err != nil {
		t.Errorf("Delete() of missing key should not error: %v", err)
	}
	if _, hit, _ := s.Get(ctx, "profile:hubot"); hit {
		t.Error("expected miss after Delete")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n, _ := s.Len(ctx); n != 0 {
		t.Errorf("Len() after Clear = %d, want 0", n)
	}
}

func TestFile(t *testing.T) {
	s, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	exercise(t, s)
}

func TestFile_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)

	s, err := NewFile("")
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	want := filepath.Join(home, DirName)
	if s.Dir() != want {
		t.Errorf("Dir() = %q, want %q", s.Dir(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("cache directory not created: %v", err)
	}
}

func TestFile_PathDeterministic(t *testing.T) {
	s, _ := NewFile(t.TempDir())

	if s.path("profile:octocat") != s.path("profile:octocat") {
		t.Error("path should be deterministic for same key")
	}
	if s.path("profile:octocat") == s.path("profile:hubot") {
		t.Error("path should differ for different keys")
	}
}

func TestFile_ClearKeepsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFile(dir)
	ctx := context.Background()

	foreign := filepath.Join(dir, "README")
	if err := os.WriteFile(foreign, []byte("keep"), 0600); err != nil {
		t.Fatal(err)
	}
	_ = s.Set(ctx, "k", []byte("v"))

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("Clear removed a non-entry file: %v", err)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	v := []byte("abc")
	_ = m.Set(ctx, "k", v)
	v[0] = 'x'

	got, _, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %s", got)
	}
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLite(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLite() error: %v", err)
	}
	if err := s.Set(ctx, "token", []byte("ghp_x")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	_ = s.Close()

	s2, err := NewSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s2.Close()
	got, hit, err := s2.Get(ctx, "token")
	if err != nil || !hit || string(got) != "ghp_x" {
		t.Errorf("Get() after reopen = %q, %v, %v", got, hit, err)
	}
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedis(ctx, addr, "ghprofile-test:")
	if err != nil {
		t.Fatalf("NewRedis() error: %v", err)
	}
	defer s.Close()
	_ = s.Clear(ctx)
	exercise(t, s)
}

func TestNewRedis_RequiresAddr(t *testing.T) {
	if _, err := NewRedis(context.Background(), "", ""); err == nil {
		t.Error("expected error for empty address")
	}
}

func TestNull(t *testing.T) {
	ctx := context.Background()
	s := NewNull()

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Errorf("Set() error: %v", err)
	}
	if _, hit, _ := s.Get(ctx, "k"); hit {
		t.Error("Null store should always miss")
	}
	if n, _ := s.Len(ctx); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{BackendFile, false},
		{BackendSQLite, false},
		{BackendMemory, false},
		{BackendNone, false},
		{"etcd", true},
	}

	for _, tt := range tests {
		t.Run("backend:"+tt.backend, func(t *testing.T) {
			s, err := Open(ctx, Options{Backend: tt.backend, Dir: dir})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}
