package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// Client handles GitHub API interactions. It is safe for concurrent use;
// every call builds a go-github client bound to the caller's token.
type Client struct {
	baseURL *url.URL
	timeout time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root (GitHub Enterprise or a test server)
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw == "" {
			return
		}
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

// WithTimeout bounds every HTTP request made by the client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a new GitHub API client
func NewClient(opts ...Option) *Client {
	c := &Client{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) forToken(ctx context.Context, accessToken string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = c.timeout

	gh := github.NewClient(httpClient)
	if c.baseURL != nil {
		gh.BaseURL = c.baseURL
	}
	return gh
}

// ListRepositories fetches one page of repositories visible to the token,
// across owned, collaborator and organization repositories, most recently updated first
func (c *Client) ListRepositories(ctx context.Context, accessToken string, page, perPage int) ([]*github.Repository, error) {
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Type:      "all",
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	repos, _, err := c.forToken(ctx, accessToken).Repositories.ListByAuthenticatedUser(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	return repos, nil
}

// LatestCommit fetches the newest commit reachable from branch.
// It returns nil without error when the branch has no commits listed.
func (c *Client) LatestCommit(ctx context.Context, accessToken, owner, repo, branch string) (*github.RepositoryCommit, error) {
	opts := &github.CommitsListOptions{
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: 1},
	}

	commits, _, err := c.forToken(ctx, accessToken).Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits for %s/%s: %w", owner, repo, err)
	}
	if len(commits) == 0 {
		return nil, nil
	}
	return commits[0], nil
}

// CreatePushHook registers an active JSON push webhook
func (c *Client) CreatePushHook(ctx context.Context, accessToken, owner, repo, hookURL, secret string) (*github.Hook, error) {
	hook := &github.Hook{
		Active: github.Bool(true),
		Events: []string{"push"},
		Config: &github.HookConfig{
			URL:         github.String(hookURL),
			ContentType: github.String("json"),
			InsecureSSL: github.String("0"),
		},
	}
	if secret != "" {
		hook.Config.Secret = github.String(secret)
	}

	created, _, err := c.forToken(ctx, accessToken).Repositories.CreateHook(ctx, owner, repo, hook)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook on %s/%s: %w", owner, repo, err)
	}
	return created, nil
}

// DeleteHook removes a webhook
func (c *Client) DeleteHook(ctx context.Context, accessToken, owner, repo string, hookID int64) error {
	if _, err := c.forToken(ctx, accessToken).Repositories.DeleteHook(ctx, owner, repo, hookID); err != nil {
		return fmt.Errorf("failed to delete webhook %d on %s/%s: %w", hookID, owner, repo, err)
	}
	return nil
}

// AuthenticatedUser fetches the profile of the token owner
func (c *Client) AuthenticatedUser(ctx context.Context, accessToken string) (*github.User, error) {
	u, _, err := c.forToken(ctx, accessToken).Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authenticated user: %w", err)
	}
	return u, nil
}

// Emails lists the email addresses of the token owner
func (c *Client) Emails(ctx context.Context, accessToken string) ([]*github.UserEmail, error) {
	emails, _, err := c.forToken(ctx, accessToken).Users.ListEmails(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	return emails, nil
}

// PrimaryEmail returns the verified primary email of the token owner, or ""
func (c *Client) PrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	emails, err := c.Emails(ctx, accessToken)
	if err != nil {
		return "", err
	}
	return PrimaryVerified(emails), nil
}

// PrimaryVerified returns the verified primary address in emails, or ""
func PrimaryVerified(emails []*github.UserEmail) string {
	for _, e := range emails {
		if e.GetPrimary() && e.GetVerified() {
			return e.GetEmail()
		}
	}
	return ""
}

// IsVerified reports whether email appears verified in emails
func IsVerified(emails []*github.UserEmail, email string) bool {
	for _, e := range emails {
		if e.GetVerified() && strings.EqualFold(e.GetEmail(), email) {
			return true
		}
	}
	return false
}

// StatusCode extracts the upstream HTTP status from an error returned by
// this client. It returns 0 for transport errors.
func StatusCode(err error) int {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return http.StatusForbidden
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return http.StatusForbidden
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode
	}
	return 0
}

// IsRateLimited reports whether err is a primary or secondary rate limit
func IsRateLimited(err error) bool {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &rateErr) || errors.As(err, &abuseErr)
}

// Message returns the upstream's own message for err when there is one
func Message(err error) string {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.Message
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Message != "" {
		return respErr.Message
	}
	return err.Error()
}
