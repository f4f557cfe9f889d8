// Package github fetches profiles, repositories and language breakdowns from
// the GitHub REST API and maps its failures onto the query error taxonomy.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/github"
	"golang.org/x/oauth2"

	"github.com/johnsaigle/ghprofile/pkg/buildinfo"
	perrors "github.com/johnsaigle/ghprofile/pkg/errors"
	"github.com/johnsaigle/ghprofile/pkg/types"
)

// PerPage is the repository page size requested from the API, which is also
// the API maximum. A page shorter than this is the last one.
const PerPage = 100

// Client wraps the GitHub API client with optional bearer authentication.
type Client struct {
	client *github.Client
	logger *log.Logger
	authed bool
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise instance or a test server.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = u }
}

// WithHTTPClient sets the transport used for unauthenticated requests and as
// the base of authenticated ones.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithLogger sets the logger for per-request debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates a client. An empty token makes unauthenticated requests;
// a non-empty token is sent as a bearer credential without validation.
func NewClient(token string, opts ...Option) (*Client, error) {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if token != "" {
		ctx := context.Background()
		if hc != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	}

	gh := github.NewClient(hc)
	gh.UserAgent = buildinfo.UserAgent()
	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", o.baseURL, err)
		}
		gh.BaseURL = u
	}

	logger := o.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{client: gh, logger: logger, authed: token != ""}, nil
}

// Authenticated reports whether requests carry a bearer credential.
func (c *Client) Authenticated() bool {
	return c.authed
}

// FetchProfile retrieves the profile for handle.
func (c *Client) FetchProfile(ctx context.Context, handle string) (*types.Profile, error) {
	if handle == "" {
		return nil, perrors.New(perrors.KindInvalidInput, "Please enter a username")
	}

	user, _, err := c.client.Users.Get(ctx, handle)
	if err != nil {
		return nil, classify(err, "profile")
	}
	if user == nil {
		return nil, perrors.New(perrors.KindNotFound, "User not found")
	}

	return &types.Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		Bio:         user.GetBio(),
		HTMLURL:     user.GetHTMLURL(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
	}, nil
}

// ListRepositories retrieves every repository owned by handle, requesting
// pages of PerPage items in increasing order from page 1 until a short page.
// A maxPages above zero caps the number of pages; reaching the cap is not an
// error.
//
// When a page request fails the repositories gathered so far are returned
// together with the error.
func (c *Client) ListRepositories(ctx context.Context, handle string, maxPages int) ([]types.Repository, error) {
	var repos []types.Repository

	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		opts := &github.RepositoryListOptions{
			ListOptions: github.ListOptions{Page: page, PerPage: PerPage},
		}

		batch, _, err := c.client.Repositories.List(ctx, handle, opts)
		if err != nil {
			c.logger.Debug("repository page failed", "page", page, "kept", len(repos), "err", err)
			return repos, classify(err, "repositories")
		}

		for _, r := range batch {
			if r == nil {
				continue
			}
			repos = append(repos, convertRepository(r))
		}
		c.logger.Debug("fetched repository page", "page", page, "items", len(batch), "total", len(repos))

		if len(batch) < PerPage {
			break
		}
	}

	return repos, nil
}

// FetchLanguages retrieves the language-to-bytes breakdown at languagesURL,
// which is usually a repository's languages_url.
func (c *Client) FetchLanguages(ctx context.Context, languagesURL string) (map[string]int64, error) {
	req, err := c.client.NewRequest(http.MethodGet, languagesURL, nil)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindFetchFailed, err, "Invalid languages URL")
	}

	langs := map[string]int64{}
	if _, err := c.client.Do(ctx, req, &langs); err != nil {
		return nil, classify(err, "languages")
	}
	return langs, nil
}

func convertRepository(r *github.Repository) types.Repository {
	return types.Repository{
		ID:           r.GetID(),
		Name:         r.GetName(),
		HTMLURL:      r.GetHTMLURL(),
		Stars:        r.GetStargazersCount(),
		Language:     r.GetLanguage(),
		PushedAt:     r.GetPushedAt().Time,
		LanguagesURL: r.GetLanguagesURL(),
	}
}

// classify maps a go-github failure onto the error taxonomy. The remote
// payload message is preferred over the fallback text, except for missing
// subjects which always read "User not found".
func classify(err error, what string) error {
	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		respErr  *github.ErrorResponse
	)

	switch {
	case errors.As(err, &rateErr):
		return perrors.Wrap(perrors.KindRateLimited, err, "%s",
			orDefault(rateErr.Message, "API rate limit exceeded")).WithStatus(statusOf(rateErr.Response))

	case errors.As(err, &abuseErr):
		return perrors.Wrap(perrors.KindRateLimited, err, "%s",
			orDefault(abuseErr.Message, "API rate limit exceeded")).WithStatus(statusOf(abuseErr.Response))

	case errors.As(err, &respErr):
		resp := respErr.Response
		status := statusOf(resp)
		msg := respErr.Message

		switch status {
		case http.StatusNotFound:
			return perrors.Wrap(perrors.KindNotFound, err, "User not found").WithStatus(status)
		case http.StatusForbidden:
			if isRateLimited(resp, msg) {
				return perrors.Wrap(perrors.KindRateLimited, err, "%s",
					orDefault(msg, "API rate limit exceeded")).WithStatus(status)
			}
			return perrors.Wrap(perrors.KindAccessDenied, err, "%s",
				orDefault(msg, "Access forbidden")).WithStatus(status)
		case http.StatusUnauthorized:
			return perrors.Wrap(perrors.KindFetchFailed, err, "%s",
				orDefault(msg, "Authentication failed (check your token)")).WithStatus(status)
		}
		return perrors.Wrap(perrors.KindFetchFailed, err, "%s",
			orDefault(msg, fmt.Sprintf("Failed to fetch %s (HTTP %d)", what, status))).WithStatus(status)
	}

	return perrors.Wrap(perrors.KindFetchFailed, err, "Failed to fetch %s", what)
}

func isRateLimited(resp *http.Response, msg string) bool {
	if resp != nil && resp.Header.Get("X-RateLimit-Remaining") == "0" {
		return true
	}
	return strings.Contains(strings.ToLower(msg), "rate limit")
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
