// Package store provides the key-value capability that persists cached query
// results and the user's token across process restarts.
//
// Callers depend only on the Store interface. Backends:
//   - File: one JSON-safe file per key under a cache directory
//   - SQLite: a single table in a local database file
//   - Redis: keys under a prefix on a Redis server
//   - Memory: process-local map, used by tests
//   - Null: never stores anything (caching disabled)
package store

import (
	"context"
	"fmt"
)

// Store is a byte-oriented key-value store. Expiry is the caller's concern.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every key owned by this store.
	Clear(ctx context.Context) error
	// Len returns the number of stored keys.
	Len(ctx context.Context) (int, error)
	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Options configures Open.
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
	Namespace string
}

// Open constructs the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendFile, "":
		s, err = NewFile(opts.Dir)
	case BackendSQLite:
		s, err = NewSQLite(ctx, sqlitePath(opts.Dir))
	case BackendRedis:
		s, err = NewRedis(ctx, opts.RedisAddr, opts.Namespace)
	case BackendMemory:
		return NewMemory(), nil
	case BackendNone:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
