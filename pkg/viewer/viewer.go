// Package viewer sequences a profile query through the cache, the profile
// and repository fetchers and the language aggregator, and exposes the result
// as read-only snapshots.
//
// A query moves Idle/Ready/Failed -> Loading -> Ready or Failed. Entering
// Loading clears the previous result. A newer submission supersedes an older
// one: the older query keeps running but none of its results are applied.
package viewer

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/johnsaigle/ghprofile/pkg/cache"
	perrors "github.com/johnsaigle/ghprofile/pkg/errors"
	"github.com/johnsaigle/ghprofile/pkg/languages"
	"github.com/johnsaigle/ghprofile/pkg/pagination"
	"github.com/johnsaigle/ghprofile/pkg/token"
	"github.com/johnsaigle/ghprofile/pkg/types"
)

// ErrSuperseded is returned by SubmitQuery when a newer query started before
// this one finished. None of the superseded query's results were applied.
var ErrSuperseded = errors.New("query superseded by a newer submission")

// Source is the remote the pipeline reads from.
type Source interface {
	FetchProfile(ctx context.Context, handle string) (*types.Profile, error)
	ListRepositories(ctx context.Context, handle string, maxPages int) ([]types.Repository, error)
	languages.Fetcher
}

// SourceFactory builds a Source authenticated with token. An empty token
// means unauthenticated.
type SourceFactory func(token string) (Source, error)

// Config wires a Viewer.
type Config struct {
	// NewSource is required.
	NewSource SourceFactory

	// Cache is optional; nil disables lookups and writes.
	Cache *cache.Cache

	// Tokens persists the user token set through SetToken. Optional.
	Tokens *token.Store

	Logger *log.Logger

	// Token is the previously persisted user token.
	Token string

	// DefaultToken is used when no user token is present.
	DefaultToken string

	Languages languages.Options

	// MaxPages caps repository pagination; zero is unbounded.
	MaxPages int

	PageSize int
}

// Viewer runs queries one at a time and holds the latest result.
type Viewer struct {
	cfg    Config
	logger *log.Logger

	mu        sync.Mutex
	gen       uint64
	state     State
	queryID   string
	subject   string
	fromCache bool
	userToken string
	profile   *types.Profile
	repos     []types.Repository
	bytes     map[string]int64
	stats     types.LanguageStats
	err       error
	page      *pagination.View
}

// New creates a Viewer in the Idle state.
func New(cfg Config) *Viewer {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Languages.Logger == nil {
		cfg.Languages.Logger = logger
	}

	return &Viewer{
		cfg:       cfg,
		logger:    logger,
		state:     Idle,
		userToken: cfg.Token,
		page:      pagination.New(cfg.PageSize),
	}
}

// SetToken replaces the user token and persists it when a token store is
// configured. An empty value reverts to the default credential.
func (v *Viewer) SetToken(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)

	v.mu.Lock()
	v.userToken = value
	v.mu.Unlock()

	if v.cfg.Tokens == nil {
		return nil
	}
	return v.cfg.Tokens.Set(ctx, value)
}

// Token returns the credential the next query would use.
func (v *Viewer) Token() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return token.Resolve(v.userToken, v.cfg.DefaultToken)
}

// GoToPage moves the repository view to page n. Out-of-range pages are
// ignored and reported as false.
func (v *Viewer) GoToPage(n int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page.GoToPage(n)
}

// SubmitQuery runs a full query for handle and blocks until it finishes.
// A non-empty tok is used as the user credential for this query only.
//
// An empty handle is rejected with an InvalidInput error and leaves the
// current state untouched. Otherwise the returned error is the query's
// terminal error, ErrSuperseded, or nil once the result is Ready.
func (v *Viewer) SubmitQuery(ctx context.Context, handle, tok string) error {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return perrors.New(perrors.KindInvalidInput, "Please enter a username")
	}

	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.queryID = uuid.NewString()
	v.subject = handle
	v.state = Loading
	v.fromCache = false
	v.profile = nil
	v.repos = nil
	v.bytes = nil
	v.stats = languages.Compute(nil, nil)
	v.err = nil
	v.page.Reset(0)
	effective := token.Resolve(tok, token.Resolve(v.userToken, v.cfg.DefaultToken))
	logger := v.logger.With("query", v.queryID, "subject", handle)
	v.mu.Unlock()

	logger.Debug("query started", "authenticated", effective != "")

	if v.cfg.Cache != nil {
		if entry, ok := v.cfg.Cache.Lookup(ctx, handle); ok {
			logger.Debug("cache hit", "age", entry.Age(time.Now()))
			return v.commit(gen, logger, func() {
				v.fromCache = true
				v.profile = entry.Profile
				v.setRepos(entry.Repositories)
				v.setBytes(entry.Languages)
				v.state = Ready
			})
		}
		logger.Debug("cache miss")
	}

	src, err := v.cfg.NewSource(effective)
	if err != nil {
		return v.fail(gen, logger, perrors.Wrap(perrors.KindFetchFailed, err, "Failed to create API client"))
	}

	profile, err := src.FetchProfile(ctx, handle)
	if err != nil {
		return v.fail(gen, logger, err)
	}
	if err := v.commit(gen, logger, func() { v.profile = profile }); err != nil {
		return err
	}

	repos, err := src.ListRepositories(ctx, handle, v.cfg.MaxPages)
	if cerr := v.commit(gen, logger, func() { v.setRepos(repos) }); cerr != nil {
		return cerr
	}
	if err != nil {
		return v.fail(gen, logger, err)
	}
	logger.Debug("repositories fetched", "count", len(repos))

	bytes := languages.Aggregate(ctx, src, repos, v.cfg.Languages)
	if err := v.commit(gen, logger, func() {
		v.setBytes(bytes)
		v.state = Ready
	}); err != nil {
		return err
	}

	if v.cfg.Cache != nil {
		if err := v.cfg.Cache.Save(ctx, handle, profile, repos, bytes); err != nil {
			logger.Warn("cache write failed", "err", err)
		}
	}
	logger.Info("query ready", "repositories", len(repos), "languages", len(bytes))
	return nil
}

// commit applies fn if gen is still the current query.
func (v *Viewer) commit(gen uint64, logger *log.Logger, fn func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		logger.Debug("discarding superseded result")
		return ErrSuperseded
	}
	fn()
	return nil
}

// fail moves the current query to Failed, keeping whatever was already
// committed, and returns err.
func (v *Viewer) fail(gen uint64, logger *log.Logger, err error) error {
	if cerr := v.commit(gen, logger, func() {
		v.err = err
		v.state = Failed
	}); cerr != nil {
		return cerr
	}
	logger.Debug("query failed", "kind", perrors.KindOf(err), "err", err)
	return err
}

// setRepos replaces the collection and returns to page 1. Caller holds mu.
func (v *Viewer) setRepos(repos []types.Repository) {
	v.repos = repos
	v.page.Reset(len(repos))
	v.stats = languages.Compute(v.repos, v.bytes)
}

// setBytes replaces the byte map and recomputes statistics. Caller holds mu.
func (v *Viewer) setBytes(bytes map[string]int64) {
	v.bytes = bytes
	v.stats = languages.Compute(v.repos, v.bytes)
}
