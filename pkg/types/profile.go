// Package types holds the provider-agnostic records shared by the fetch
// pipeline, the cache and the formatters.
package types

// Profile is the public developer profile of one subject handle.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio,omitempty"`
	HTMLURL     string `json:"html_url"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	PublicRepos int    `json:"public_repos"`
}

// DisplayName returns the display name, falling back to the login handle.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}
