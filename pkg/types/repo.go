package types

import "time"

// Repository holds the fields of a hosted repository that the viewer displays
// and aggregates. It is decoupled from the go-github response types so the
// cache and formatters never depend on the API client.
type Repository struct {
	PushedAt     time.Time `json:"pushed_at"`
	Name         string    `json:"name"`
	HTMLURL      string    `json:"html_url"`
	Language     string    `json:"language,omitempty"`
	LanguagesURL string    `json:"languages_url"`
	ID           int64     `json:"id"`
	Stars        int       `json:"stargazers_count"`
}

// HasLanguage reports whether the repository carries a primary language label.
func (r Repository) HasLanguage() bool {
	return r.Language != ""
}

// DaysSincePush returns the number of whole days since the last push.
// Returns -1 if the push time is unknown.
func (r Repository) DaysSincePush() int {
	if r.PushedAt.IsZero() {
		return -1
	}
	return int(time.Since(r.PushedAt).Hours() / 24)
}
