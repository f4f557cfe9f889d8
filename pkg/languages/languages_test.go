package languages

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johnsaigle/ghprofile/pkg/types"
)

type fakeFetcher struct {
	mu       sync.Mutex
	byURL    map[string]map[string]int64
	failURLs map[string]bool
	delay    time.Duration
	calls    []string
	inflight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeFetcher) FetchLanguages(_ context.Context, url string) (map[string]int64, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if f.failURLs[url] {
		return nil, errors.New("boom")
	}
	return f.byURL[url], nil
}

func makeRepos(n int) []types.Repository {
	repos := make([]types.Repository, n)
	for i := range repos {
		repos[i] = types.Repository{
			ID:           int64(i),
			Name:         fmt.Sprintf("r%d", i),
			LanguagesURL: fmt.Sprintf("u%d", i),
		}
	}
	return repos
}

func TestAggregate_MergesAndSkipsFailures(t *testing.T) {
	f := &fakeFetcher{
		byURL: map[string]map[string]int64{
			"u0": {"Go": 100, "Shell": 10},
			"u1": {"Go": 50},
			"u2": {"Python": 999},
		},
		failURLs: map[string]bool{"u2": true},
	}

	got := Aggregate(context.Background(), f, makeRepos(3), Options{})
	if got["Go"] != 150 || got["Shell"] != 10 {
		t.Errorf("Aggregate() = %v", got)
	}
	if _, ok := got["Python"]; ok {
		t.Error("failed breakdown leaked into the aggregate")
	}
}

func TestAggregate_LimitsToLeadingRepos(t *testing.T) {
	f := &fakeFetcher{byURL: map[string]map[string]int64{}}
	Aggregate(context.Background(), f, makeRepos(45), Options{})

	if len(f.calls) != DefaultLimit {
		t.Fatalf("made %d requests, want %d", len(f.calls), DefaultLimit)
	}
	for _, u := range f.calls {
		var i int
		_, _ = fmt.Sscanf(u, "u%d", &i)
		if i >= DefaultLimit {
			t.Errorf("requested %s outside the leading %d repositories", u, DefaultLimit)
		}
	}
}

func TestAggregate_BoundedConcurrency(t *testing.T) {
	f := &fakeFetcher{byURL: map[string]map[string]int64{}, delay: 20 * time.Millisecond}
	Aggregate(context.Background(), f, makeRepos(12), Options{Concurrency: 3})

	if p := f.peak.Load(); p > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", p)
	}
	if len(f.calls) != 12 {
		t.Errorf("made %d requests, want 12", len(f.calls))
	}
}

func TestAggregate_AllFailOrEmpty(t *testing.T) {
	f := &fakeFetcher{failURLs: map[string]bool{"u0": true, "u1": true}}

	got := Aggregate(context.Background(), f, makeRepos(2), Options{})
	if got == nil || len(got) != 0 {
		t.Errorf("Aggregate() with all failures = %v, want empty map", got)
	}

	got = Aggregate(context.Background(), f, nil, Options{})
	if got == nil || len(got) != 0 {
		t.Errorf("Aggregate() with no repos = %v, want empty map", got)
	}
}

func TestAggregate_SkipsReposWithoutURL(t *testing.T) {
	f := &fakeFetcher{byURL: map[string]map[string]int64{}}
	repos := makeRepos(2)
	repos[1].LanguagesURL = ""

	Aggregate(context.Background(), f, repos, Options{})
	if len(f.calls) != 1 {
		t.Errorf("made %d requests, want 1", len(f.calls))
	}
}

func TestCompute(t *testing.T) {
	repos := []types.Repository{
		{Name: "a", Language: "Go"},
		{Name: "b", Language: "Go"},
		{Name: "c", Language: "Rust"},
		{Name: "d"},
	}

	tests := []struct {
		name      string
		bytes     map[string]int64
		weighting types.Weighting
		want      []types.LanguageStat
	}{
		{
			name:      "byte weighted",
			bytes:     map[string]int64{"Python": 300, "Go": 700},
			weighting: types.WeightBytes,
			want: []types.LanguageStat{
				{Language: "Go", Weight: 700, Percent: 70},
				{Language: "Python", Weight: 300, Percent: 30},
			},
		},
		{
			name:      "count weighted fallback",
			bytes:     map[string]int64{},
			weighting: types.WeightRepos,
			want: []types.LanguageStat{
				{Language: "Go", Weight: 2, Percent: 200.0 / 3},
				{Language: "Rust", Weight: 1, Percent: 100.0 / 3},
			},
		},
		{
			name:      "ties broken by name",
			bytes:     map[string]int64{"Zig": 5, "Ada": 5},
			weighting: types.WeightBytes,
			want: []types.LanguageStat{
				{Language: "Ada", Weight: 5, Percent: 50},
				{Language: "Zig", Weight: 5, Percent: 50},
			},
		},
		{
			name:      "zero total",
			bytes:     map[string]int64{"Go": 0},
			weighting: types.WeightBytes,
			want:      []types.LanguageStat{{Language: "Go", Weight: 0, Percent: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(repos, tt.bytes)
			if got.Weighting != tt.weighting {
				t.Errorf("Weighting = %q, want %q", got.Weighting, tt.weighting)
			}
			if len(got.Entries) != len(tt.want) {
				t.Fatalf("Entries = %+v, want %+v", got.Entries, tt.want)
			}
			for i := range tt.want {
				g, w := got.Entries[i], tt.want[i]
				if g.Language != w.Language || g.Weight != w.Weight || math.Abs(g.Percent-w.Percent) > 1e-9 {
					t.Errorf("Entries[%d] = %+v, want %+v", i, g, w)
				}
			}
		})
	}
}

func TestCompute_PercentagesSumTo100(t *testing.T) {
	bytes := map[string]int64{"Go": 1, "Rust": 1, "C": 1, "Shell": 7, "HTML": 13}
	got := Compute(nil, bytes)
	if math.Abs(got.TotalPercent()-100) > 1e-9 {
		t.Errorf("TotalPercent() = %v, want 100", got.TotalPercent())
	}
	for i := 1; i < len(got.Entries); i++ {
		if got.Entries[i].Percent > got.Entries[i-1].Percent {
			t.Fatalf("entries not sorted descending: %+v", got.Entries)
		}
	}
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil, nil)
	if got.Weighting != types.WeightRepos || len(got.Entries) != 0 {
		t.Errorf("Compute(nil, nil) = %+v", got)
	}
}

func TestColor(t *testing.T) {
	if got := Color("Go"); got != "#00ADD8" {
		t.Errorf("Color(Go) = %q", got)
	}
	if got := Color("C++"); got != "#00599C" {
		t.Errorf("Color(C++) = %q", got)
	}
	if got := Color("Brainfuck"); got != Neutral {
		t.Errorf("Color(unknown) = %q, want %q", got, Neutral)
	}
}

func TestAbbrev(t *testing.T) {
	tests := map[string]string{"Haskell": "Has", "Go": "Go", "": ""}
	for in, want := range tests {
		if got := Abbrev(in); got != want {
			t.Errorf("Abbrev(%q) = %q, want %q", in, got, want)
		}
	}
}
