// Package languages aggregates per-repository language byte breakdowns into a
// single distribution.
//
// Aggregate fans out one request per selected repository with bounded
// concurrency and joins on all of them before merging. Individual failures
// are dropped; the merged map only holds successful breakdowns. Compute turns
// the merged map (or, when it is empty, the repositories' primary languages)
// into sorted percentage statistics.
package languages

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/johnsaigle/ghprofile/pkg/types"
)

const (
	// DefaultLimit is how many leading repositories are sampled for byte data.
	DefaultLimit = 30

	// DefaultConcurrency bounds the number of in-flight language requests.
	DefaultConcurrency = 30
)

// Fetcher retrieves one repository's language-to-bytes breakdown.
type Fetcher interface {
	FetchLanguages(ctx context.Context, languagesURL string) (map[string]int64, error)
}

// Options tunes Aggregate. Zero values select the defaults.
type Options struct {
	Logger      *log.Logger
	Limit       int
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Aggregate fetches the language breakdown of the first opts.Limit
// repositories and sums bytes per language across every breakdown that
// succeeded. The result is empty, never nil, when nothing succeeded.
func Aggregate(ctx context.Context, f Fetcher, repos []types.Repository, opts Options) map[string]int64 {
	opts = opts.withDefaults()

	selected := repos
	if len(selected) > opts.Limit {
		selected = selected[:opts.Limit]
	}

	var (
		mu        sync.Mutex
		merged    = make(map[string]int64)
		succeeded int
		failed    int
	)

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)

	for _, repo := range selected {
		if repo.LanguagesURL == "" {
			continue
		}
		g.Go(func() error {
			langs, err := f.FetchLanguages(ctx, repo.LanguagesURL)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				opts.Logger.Debug("language breakdown skipped", "repo", repo.Name, "err", err)
				return nil
			}
			succeeded++
			for lang, n := range langs {
				merged[lang] += n
			}
			return nil
		})
	}

	// Tasks never return errors; Wait is only the join.
	_ = g.Wait()

	opts.Logger.Debug("language fan-out done",
		"requested", succeeded+failed, "succeeded", succeeded, "failed", failed, "languages", len(merged))

	return merged
}
