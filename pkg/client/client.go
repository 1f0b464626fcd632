// Package client is a typed client for the git-away JSON API. It satisfies
// the view package's Lister and CommitFetcher so the CLI can page and
// enrich repositories the same way the dashboard does.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"git-away/internal/application/dto"
)

// Client calls the API with a session token
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the transport used for requests. The session
// token is still attached.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	authed.Timeout = c.httpClient.Timeout
	c.httpClient = authed
	return c
}

// APIError is a failed API call
type APIError struct {
	Status  int
	Code    string
	Reason  string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// Temporary reports whether repeating the call may succeed
func (e *APIError) Temporary() bool {
	switch e.Code {
	case "AUTH_EXPIRED", "UNAUTHENTICATED", "NOT_CONNECTED", "BAD_REQUEST":
		return false
	}
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// ListRepositories fetches one page of the caller's repositories
func (c *Client) ListRepositories(ctx context.Context, page, perPage int) (*dto.RepositoryPageResponse, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("per_page", fmt.Sprint(perPage))

	var out dto.RepositoryPageResponse
	if err := c.get(ctx, "/api/github/repos?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLastCommit fetches the last commit of a branch; LastCommit is nil when none is available
func (c *Client) GetLastCommit(ctx context.Context, owner, name, branch string) (*dto.LastCommitResponse, error) {
	path := fmt.Sprintf("/api/github/repos/%s/%s/last-commit", url.PathEscape(owner), url.PathEscape(name))
	if branch != "" {
		path += "?branch=" + url.QueryEscape(branch)
	}

	var out dto.LastCommitResponse
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListConnections lists the caller's provider connections
func (c *Client) ListConnections(ctx context.Context) (*dto.ConnectionListResponse, error) {
	var out dto.ConnectionListResponse
	if err := c.get(ctx, "/api/accounts", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TokenScope returns the GitHub credential diagnostic
func (c *Client) TokenScope(ctx context.Context) (*dto.TokenScopeResponse, error) {
	var out dto.TokenScopeResponse
	if err := c.get(ctx, "/api/debug/token-scope", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Session returns the session the token belongs to
func (c *Client) Session(ctx context.Context) (*dto.SessionResponse, error) {
	var out dto.SessionResponse
	if err := c.get(ctx, "/api/auth/session", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error  string `json:"error"`
			Code   string `json:"code"`
			Reason string `json:"reason"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Code = payload.Code
			apiErr.Reason = payload.Reason
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
