package viewer

import (
	perrors "github.com/johnsaigle/ghprofile/pkg/errors"
	"github.com/johnsaigle/ghprofile/pkg/pagination"
	"github.com/johnsaigle/ghprofile/pkg/types"
)

// Page describes the repository page currently in view.
type Page struct {
	Visible    []types.Repository `json:"visible"`
	Current    int                `json:"current"`
	TotalPages int                `json:"total_pages"`
	PageSize   int                `json:"page_size"`
}

// Snapshot is a read-only copy of the viewer state.
type Snapshot struct {
	Profile      *types.Profile      `json:"profile"`
	Err          error               `json:"-"`
	QueryID      string              `json:"query_id,omitempty"`
	Subject      string              `json:"subject,omitempty"`
	Error        string              `json:"error,omitempty"`
	ErrorKind    perrors.Kind        `json:"error_kind,omitempty"`
	Repositories []types.Repository  `json:"repositories"`
	Languages    types.LanguageStats `json:"languages"`
	Page         Page                `json:"page"`
	State        State               `json:"state"`
	Loading      bool                `json:"loading"`
	FromCache    bool                `json:"from_cache"`
}

// Snapshot returns a copy of the current state safe to use without locking.
func (v *Viewer) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	var profile *types.Profile
	if v.profile != nil {
		p := *v.profile
		profile = &p
	}

	repos := make([]types.Repository, len(v.repos))
	copy(repos, v.repos)
	stats := types.LanguageStats{
		Weighting: v.stats.Weighting,
		Entries:   make([]types.LanguageStat, len(v.stats.Entries)),
	}
	copy(stats.Entries, v.stats.Entries)

	return Snapshot{
		QueryID:      v.queryID,
		Subject:      v.subject,
		State:        v.state,
		Loading:      v.state == Loading,
		FromCache:    v.fromCache,
		Profile:      profile,
		Repositories: repos,
		Languages:    stats,
		Err:          v.err,
		Error:        perrors.UserMessage(v.err),
		ErrorKind:    perrors.KindOf(v.err),
		Page: Page{
			Current:    v.page.Current(),
			TotalPages: v.page.TotalPages(),
			PageSize:   v.page.PageSize(),
			Visible:    pagination.Visible(v.page, repos),
		},
	}
}
