// Command cache-warmer runs the profile pipeline for a list of users and
// stores each result in the local cache, so later lookups within the TTL are
// served without network requests.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/johnsaigle/ghprofile/pkg/cache"
	"github.com/johnsaigle/ghprofile/pkg/config"
	perrors "github.com/johnsaigle/ghprofile/pkg/errors"
	"github.com/johnsaigle/ghprofile/pkg/github"
	"github.com/johnsaigle/ghprofile/pkg/languages"
	"github.com/johnsaigle/ghprofile/pkg/store"
	"github.com/johnsaigle/ghprofile/pkg/token"
	"github.com/johnsaigle/ghprofile/pkg/viewer"
)

var (
	usersFile   = flag.String("users", "", "file with one username per line (default: positional args, or stdin)")
	tokenFlag   = flag.String("token", "", "GitHub token (default: GITHUB_TOKEN or config)")
	backend     = flag.String("backend", "", "cache backend: file, sqlite or redis (default: from config)")
	concurrency = flag.Int("concurrency", 3, "number of users warmed at once")
	verbose     = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level := log.InfoLevel
	if *verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})

	users, err := readUsers(*usersFile, flag.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading users: %v\n", err)
		os.Exit(2)
	}
	if len(users) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no users given. Pass usernames as arguments, via --users or on stdin")
		os.Exit(2)
	}

	settings := config.Defaults()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err == nil {
		err = settings.Apply(fileCfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}
	if *backend != "" {
		settings.CacheBackend = *backend
	}
	if settings.CacheBackend == store.BackendNone {
		fmt.Fprintln(os.Stderr, "Error: warming a disabled cache does nothing; pick file, sqlite or redis")
		os.Exit(2)
	}

	kv, err := store.Open(ctx, settings.StoreOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	w := &warmer{
		cache:       cache.New(kv, settings.CacheTTL),
		settings:    settings,
		token:       token.Resolve(*tokenFlag, token.Default(settings.Token)),
		logger:      logger,
		concurrency: *concurrency,
	}

	fmt.Printf("Warming %s cache for %d users (%d workers, ttl %s)...\n",
		settings.CacheBackend, len(users), w.concurrency, settings.CacheTTL)

	start := time.Now()
	results := w.run(ctx, users)

	var s stats
	for _, r := range results {
		s.add(r)
	}
	fmt.Println()
	fmt.Println("Statistics:")
	fmt.Printf("  Warmed:       %d\n", s.warmed)
	fmt.Printf("  Already hot:  %d\n", s.cached)
	fmt.Printf("  Not found:    %d\n", s.notFound)
	fmt.Printf("  Failed:       %d\n", s.failed)
	fmt.Printf("  Elapsed:      %s\n", time.Since(start).Round(time.Millisecond))

	if s.failed > 0 {
		os.Exit(1)
	}
}

// readUsers collects usernames from a file, the positional args, or r when
// neither is given. Blank lines and lines starting with # are skipped.
func readUsers(path string, args []string, r io.Reader) ([]string, error) {
	if path == "" && len(args) > 0 {
		return dedupe(args), nil
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var users []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		users = append(users, line)
	}
	return dedupe(users), scanner.Err()
}

func dedupe(users []string) []string {
	seen := make(map[string]bool, len(users))
	out := users[:0:0]
	for _, u := range users {
		key := cache.Key(u)
		if u == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, u)
	}
	return out
}

type outcome int

const (
	outcomeWarmed outcome = iota
	outcomeCached
	outcomeNotFound
	outcomeFailed
)

type result struct {
	err     error
	user    string
	outcome outcome
}

type stats struct {
	warmed   int
	cached   int
	notFound int
	failed   int
}

func (s *stats) add(r result) {
	switch r.outcome {
	case outcomeWarmed:
		s.warmed++
	case outcomeCached:
		s.cached++
	case outcomeNotFound:
		s.notFound++
	case outcomeFailed:
		s.failed++
	}
}

type warmer struct {
	cache       *cache.Cache
	logger      *log.Logger
	token       string
	settings    config.Settings
	concurrency int
}

// run warms every user with at most w.concurrency queries in flight and
// returns results in input order.
func (w *warmer) run(ctx context.Context, users []string) []result {
	results := make([]result, len(users))

	concurrency := w.concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	semaphore := make(chan struct{}, concurrency)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	for i, user := range users {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			r := w.warm(ctx, user)
			results[i] = r

			mu.Lock()
			completed++
			fmt.Printf("  %s %s (%d/%d)\n", symbol(r.outcome), user, completed, len(users))
			mu.Unlock()
		}(i, user)
	}
	wg.Wait()

	return results
}

// warm runs one query through its own viewer sharing the cache.
func (w *warmer) warm(ctx context.Context, user string) result {
	if _, ok := w.cache.Lookup(ctx, user); ok {
		return result{user: user, outcome: outcomeCached}
	}

	v := viewer.New(viewer.Config{
		NewSource: func(tok string) (viewer.Source, error) {
			opts := []github.Option{github.WithLogger(w.logger)}
			if w.settings.BaseURL != "" {
				opts = append(opts, github.WithBaseURL(w.settings.BaseURL))
			}
			c, err := github.NewClient(tok, opts...)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Cache:        w.cache,
		Logger:       w.logger,
		DefaultToken: w.token,
		MaxPages:     w.settings.MaxPages,
		Languages: languages.Options{
			Limit:       w.settings.LanguageRepos,
			Concurrency: w.settings.Concurrency,
		},
	})

	err := v.SubmitQuery(ctx, user, "")
	switch {
	case err == nil:
		return result{user: user, outcome: outcomeWarmed}
	case perrors.Is(err, perrors.KindNotFound):
		return result{user: user, outcome: outcomeNotFound, err: err}
	default:
		w.logger.Warn("warm failed", "user", user, "err", perrors.UserMessage(err))
		return result{user: user, outcome: outcomeFailed, err: err}
	}
}

func symbol(o outcome) string {
	switch o {
	case outcomeWarmed:
		return "+"
	case outcomeCached:
		return "✓"
	case outcomeNotFound:
		return "?"
	default:
		return "✗"
	}
}
