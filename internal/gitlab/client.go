package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xanzy/go-gitlab"
)

const defaultURL = "https://gitlab.com"

// Client handles GitLab API interactions for OAuth tokens
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a GitLab client for the instance at baseURL
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v4",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) forToken(accessToken string) (*gitlab.Client, error) {
	gl, err := gitlab.NewOAuthClient(accessToken,
		gitlab.WithBaseURL(c.baseURL),
		gitlab.WithHTTPClient(c.httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return gl, nil
}

// CurrentUser fetches the profile of the token owner
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*gitlab.User, error) {
	gl, err := c.forToken(accessToken)
	if err != nil {
		return nil, err
	}

	u, _, err := gl.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}
	return u, nil
}

// StatusCode extracts the upstream HTTP status from an error, or 0
func StatusCode(err error) int {
	var respErr *gitlab.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode
	}
	return 0
}
