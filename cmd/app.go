package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/johnsaigle/ghprofile/pkg/cache"
	"github.com/johnsaigle/ghprofile/pkg/config"
	"github.com/johnsaigle/ghprofile/pkg/github"
	"github.com/johnsaigle/ghprofile/pkg/languages"
	"github.com/johnsaigle/ghprofile/pkg/store"
	"github.com/johnsaigle/ghprofile/pkg/token"
	"github.com/johnsaigle/ghprofile/pkg/viewer"
)

// app holds the resources shared by every subcommand.
type app struct {
	logger   *log.Logger
	settings config.Settings
	kv       store.Store
	cache    *cache.Cache
	tokens   *token.Store
	tokenKV  store.Store
}

// loadSettings resolves defaults, then the config file, then explicitly set
// flags, in increasing precedence.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	path := opts.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}

	s := config.Defaults()
	if err := s.Apply(fileCfg); err != nil {
		return config.Settings{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	flags := cmd.Flags()
	if flags.Changed("cache-backend") {
		s.CacheBackend = opts.cacheBackend
	}
	if flags.Changed("max-pages") {
		s.MaxPages = opts.maxPages
	}
	if flags.Changed("base-url") {
		s.BaseURL = opts.baseURL
	}
	if opts.noCache {
		s.CacheBackend = store.BackendNone
	}
	return s, s.Validate()
}

// openApp loads settings and opens the cache and token stores.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(ctx, s.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", s.CacheBackend, err)
	}
	logger.Debug("cache opened", "backend", s.CacheBackend, "ttl", s.CacheTTL)

	tokenKV, err := store.NewFile(filepath.Join(config.XDGConfigHome(), config.AppName))
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	return &app{
		logger:   logger,
		settings: s,
		kv:       kv,
		cache:    cache.New(kv, s.CacheTTL),
		tokens:   token.NewStore(tokenKV),
		tokenKV:  tokenKV,
	}, nil
}

func (a *app) Close() error {
	_ = a.tokenKV.Close()
	return a.kv.Close()
}

// newViewer wires the pipeline against the GitHub API.
func (a *app) newViewer(ctx context.Context) (*viewer.Viewer, error) {
	userToken, err := a.tokens.Get(ctx)
	if err != nil {
		return nil, err
	}

	return viewer.New(viewer.Config{
		NewSource:    githubSource(a.settings.BaseURL, a.logger),
		Cache:        a.cache,
		Tokens:       a.tokens,
		Logger:       a.logger,
		Token:        userToken,
		DefaultToken: token.Default(a.settings.Token),
		MaxPages:     a.settings.MaxPages,
		PageSize:     a.settings.PageSize,
		Languages: languages.Options{
			Limit:       a.settings.LanguageRepos,
			Concurrency: a.settings.Concurrency,
		},
	}), nil
}

func githubSource(baseURL string, logger *log.Logger) viewer.SourceFactory {
	return func(tok string) (viewer.Source, error) {
		opts := []github.Option{github.WithLogger(logger)}
		if baseURL != "" {
			opts = append(opts, github.WithBaseURL(baseURL))
		}
		c, err := github.NewClient(tok, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
