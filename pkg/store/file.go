package store

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirName is the directory created under the user cache home.
const DirName = "ghprofile"

// File stores each key as a file named after the SHA-256 of the key.
type File struct {
	dir string
}

// NewFile creates a file store rooted at dir, or at the default cache
// directory when dir is empty.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get cache directory: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &File{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (f *File) Dir() string { return f.dir }

// Get reads the file for key.
func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes the file for key.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	if err := os.WriteFile(f.path(key), value, 0600); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes the file for key.
func (f *File) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every entry file and keeps the directory.
func (f *File) Clear(_ context.Context) error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Len counts entry files.
func (f *File) Len(_ context.Context) (int, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			count++
		}
	}
	return count, nil
}

// Close is a no-op.
func (f *File) Close() error { return nil }

// path hashes the key to create a safe filename.
func (f *File) path(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(f.dir, fmt.Sprintf("%x.json", hash))
}

// DefaultDir returns the cache directory for the current user.
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, DirName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".cache", DirName), nil
}

func sqlitePath(dir string) string {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			d = "."
		}
		dir = d
	}
	return filepath.Join(dir, "cache.db")
}
