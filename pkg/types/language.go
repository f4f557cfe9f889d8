package types

// Weighting says how a language's share was measured.
type Weighting string

const (
	// WeightBytes weights languages by cumulative source bytes.
	WeightBytes Weighting = "bytes"
	// WeightRepos weights languages by the number of repositories whose
	// primary language matches.
	WeightRepos Weighting = "repos"
)

// LanguageStat is one entry of a language distribution. Weight is a byte count
// or a repository count depending on the owning LanguageStats.Weighting.
type LanguageStat struct {
	Language string  `json:"language"`
	Weight   int64   `json:"weight"`
	Percent  float64 `json:"percent"`
}

// LanguageStats is a language distribution computed with a single weighting,
// sorted by descending percentage.
type LanguageStats struct {
	Weighting Weighting      `json:"weighting"`
	Entries   []LanguageStat `json:"entries"`
}

// ByteAccurate reports whether the distribution was computed from byte data.
func (s LanguageStats) ByteAccurate() bool {
	return s.Weighting == WeightBytes
}

// TotalPercent sums the percentages of all entries.
func (s LanguageStats) TotalPercent() float64 {
	var total float64
	for _, e := range s.Entries {
		total += e.Percent
	}
	return total
}
