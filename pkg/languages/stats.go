package languages

import (
	"sort"

	"github.com/johnsaigle/ghprofile/pkg/types"
)

// Compute derives the language distribution. A non-empty byte map weights
// every language by bytes; otherwise each language is weighted by the number
// of repositories whose primary language matches. Modes are never mixed.
//
// Entries are sorted by descending percentage, then by name. Every percentage
// is zero when the total weight is zero.
func Compute(repos []types.Repository, bytes map[string]int64) types.LanguageStats {
	stats := types.LanguageStats{Weighting: types.WeightBytes}

	weights := bytes
	if len(bytes) == 0 {
		stats.Weighting = types.WeightRepos
		weights = make(map[string]int64)
		for _, r := range repos {
			if r.HasLanguage() {
				weights[r.Language]++
			}
		}
	}

	var total int64
	for _, w := range weights {
		total += w
	}

	stats.Entries = make([]types.LanguageStat, 0, len(weights))
	for lang, w := range weights {
		var pct float64
		if total > 0 {
			pct = 100 * float64(w) / float64(total)
		}
		stats.Entries = append(stats.Entries, types.LanguageStat{Language: lang, Weight: w, Percent: pct})
	}

	sort.Slice(stats.Entries, func(i, j int) bool {
		a, b := stats.Entries[i], stats.Entries[j]
		if a.Percent != b.Percent {
			return a.Percent > b.Percent
		}
		return a.Language < b.Language
	})

	return stats
}
