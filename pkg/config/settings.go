package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnsaigle/ghprofile/pkg/cache"
	"github.com/johnsaigle/ghprofile/pkg/languages"
	"github.com/johnsaigle/ghprofile/pkg/pagination"
	"github.com/johnsaigle/ghprofile/pkg/store"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	Token         string
	BaseURL       string
	CacheBackend  string
	CacheDir      string
	RedisAddr     string
	CacheTTL      time.Duration
	MaxPages      int
	LanguageRepos int
	Concurrency   int
	PageSize      int
}

// Defaults returns the settings used when neither file nor flags say otherwise.
func Defaults() Settings {
	return Settings{
		CacheBackend:  store.BackendFile,
		RedisAddr:     "localhost:6379",
		CacheTTL:      cache.DefaultTTL,
		LanguageRepos: languages.DefaultLimit,
		Concurrency:   languages.DefaultConcurrency,
		PageSize:      pagination.DefaultPageSize,
	}
}

// Apply overlays every key present in fc.
func (s *Settings) Apply(fc FileConfig) error {
	setString(&s.Token, fc.GitHub.Token)
	setString(&s.BaseURL, fc.GitHub.BaseURL)
	setString(&s.CacheBackend, fc.Cache.Backend)
	setString(&s.CacheDir, fc.Cache.Dir)
	setString(&s.RedisAddr, fc.Cache.RedisAddr)
	setInt(&s.MaxPages, fc.Fetch.MaxPages)
	setInt(&s.LanguageRepos, fc.Fetch.LanguageRepos)
	setInt(&s.Concurrency, fc.Fetch.Concurrency)
	setInt(&s.PageSize, fc.Fetch.PageSize)

	if fc.Cache.TTL != nil {
		ttl, err := time.ParseDuration(*fc.Cache.TTL)
		if err != nil {
			return fmt.Errorf("invalid cache ttl %q: %w", *fc.Cache.TTL, err)
		}
		s.CacheTTL = ttl
	}
	return s.Validate()
}

// Validate rejects settings the pipeline cannot run with.
func (s Settings) Validate() error {
	switch strings.ToLower(s.CacheBackend) {
	case store.BackendFile, store.BackendSQLite, store.BackendRedis, store.BackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (want file, sqlite, redis or none)", s.CacheBackend)
	}
	if s.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", s.CacheTTL)
	}
	if s.MaxPages < 0 {
		return fmt.Errorf("max-pages must be >= 0, got %d", s.MaxPages)
	}
	if s.LanguageRepos < 1 || s.Concurrency < 1 || s.PageSize < 1 {
		return fmt.Errorf("language-repos, concurrency and page-size must be >= 1")
	}
	return nil
}

// StoreOptions returns the options for opening the configured cache backend.
func (s Settings) StoreOptions() store.Options {
	return store.Options{
		Backend:   strings.ToLower(s.CacheBackend),
		Dir:       s.CacheDir,
		RedisAddr: s.RedisAddr,
	}
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}
