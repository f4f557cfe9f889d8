// Package token resolves the effective GitHub credential and persists the
// user-supplied token between runs.
//
// Resolution order: a user-supplied value wins over the default. The default
// is itself the first non-empty of the build-configured token, the
// GITHUB_TOKEN environment variable and the config file. When nothing
// resolves, requests are made unauthenticated. Tokens are never validated;
// a bad token surfaces as an authentication failure from the API.
package token

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/johnsaigle/ghprofile/pkg/buildinfo"
	"github.com/johnsaigle/ghprofile/pkg/store"
)

// EnvVar is the environment variable consulted for the default token.
const EnvVar = "GITHUB_TOKEN"

// storeKey is where the user token lives in its store.
const storeKey = "token"

// Resolve returns user when non-empty, otherwise fallback.
func Resolve(user, fallback string) string {
	if user != "" {
		return user
	}
	return fallback
}

// Default returns the first non-empty of the build-configured token, the
// GITHUB_TOKEN environment variable and configured.
func Default(configured string) string {
	for _, candidate := range []string{buildinfo.DefaultToken, os.Getenv(EnvVar), configured} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// Store persists the user-supplied token.
type Store struct {
	kv store.Store
}

// NewStore wraps a key-value store.
func NewStore(kv store.Store) *Store {
	return &Store{kv: kv}
}

// Get returns the persisted token, or "" when none is stored.
func (s *Store) Get(ctx context.Context) (string, error) {
	data, hit, err := s.kv.Get(ctx, storeKey)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if !hit {
		return "", nil
	}
	return string(data), nil
}

// Set persists value. An empty value removes the stored token.
func (s *Store) Set(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.kv.Delete(ctx, storeKey)
	}
	if err := s.kv.Set(ctx, storeKey, []byte(value)); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// Mask hides all but the last four characters of tok.
func Mask(tok string) string {
	if tok == "" {
		return "(none)"
	}
	if len(tok) <= 4 {
		return strings.Repeat("*", len(tok))
	}
	return strings.Repeat("*", len(tok)-4) + tok[len(tok)-4:]
}
