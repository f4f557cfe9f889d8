package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/johnsaigle/ghprofile/pkg/store"
	"github.com/johnsaigle/ghprofile/pkg/types"
)

// DefaultTTL is how long a stored query result may be reused.
const DefaultTTL = 5 * time.Minute

// keyPrefix scopes query results inside a shared store.
const keyPrefix = "profile:"

// Entry is a cached query result for one subject.
type Entry struct {
	Timestamp    time.Time          `json:"timestamp"`
	Profile      *types.Profile     `json:"profile"`
	Subject      string             `json:"subject"`
	Repositories []types.Repository `json:"repositories"`
	Languages    map[string]int64   `json:"languages"`
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Cache reuses query results for TTL on top of a key-value store.
// Expired entries are treated as absent; they stay in the store until
// the next Save for the same subject overwrites them.
type Cache struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache over s. A zero ttl selects DefaultTTL.
func New(s store.Store, ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{store: s, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the reuse window.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Lookup returns the entry for subject if present and younger than the TTL.
// Read and decode failures are reported as a miss.
func (c *Cache) Lookup(ctx context.Context, subject string) (*Entry, bool) {
	data, hit, err := c.store.Get(ctx, Key(subject))
	if err != nil || !hit {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Invalid cache entry, ignore
		return nil, false
	}

	if entry.Age(c.now()) >= c.ttl {
		return nil, false
	}

	return &entry, true
}

// Save overwrites the entry for subject, stamped with the current time.
func (c *Cache) Save(ctx context.Context, subject string, profile *types.Profile, repos []types.Repository, languages map[string]int64) error {
	entry := Entry{
		Subject:      subject,
		Profile:      profile,
		Repositories: repos,
		Languages:    languages,
		Timestamp:    c.now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := c.store.Set(ctx, Key(subject), data); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Clear removes every stored entry.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len(ctx context.Context) (int, error) {
	return c.store.Len(ctx)
}

// Key returns the store key for subject. Handles are case-insensitive on the
// remote, so the key is lower-cased.
func Key(subject string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(subject))
}
