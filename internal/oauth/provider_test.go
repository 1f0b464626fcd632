package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"git-away/internal/config"
	"git-away/internal/domain/account"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewProvider(account.ProviderGitHub, &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   server.URL + "/authorize",
			TokenURL:  server.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: "http://localhost/callback",
		Scopes:      []string{"repo", "read:user"},
	})
}

func TestExchange(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"gho_abc","token_type":"bearer","scope":"repo,read:user"}`)
	})

	tokens, err := p.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "gho_abc", tokens.AccessToken)
	assert.Equal(t, "repo read:user", tokens.Scope)
	assert.Nil(t, tokens.ExpiresAt)
}

func TestExchangeFallsBackToRequestedScopes(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"glpat","refresh_token":"rt","token_type":"bearer","expires_in":7200}`)
	})

	tokens, err := p.Exchange(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "repo read:user", tokens.Scope)
	assert.Equal(t, "rt", tokens.RefreshToken)
	require.NotNil(t, tokens.ExpiresAt)
}

func TestExchangeError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"bad_verification_code"}`)
	})

	_, err := p.Exchange(context.Background(), "stale")
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"fresh","refresh_token":"new-refresh","token_type":"bearer","expires_in":3600}`)
	})

	tokens, err := p.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", tokens.AccessToken)
	assert.Equal(t, "new-refresh", tokens.RefreshToken)
}

func TestAuthCodeURL(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})

	u, err := url.Parse(p.AuthCodeURL("state-token"))
	require.NoError(t, err)
	assert.Equal(t, "state-token", u.Query().Get("state"))
	assert.Equal(t, "repo read:user", u.Query().Get("scope"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
}

func TestNewRegistry(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{BaseURL: "http://localhost:8080"},
		GitHub: config.GitHubConfig{ClientID: "gh", ClientSecret: "gh-secret", Scopes: []string{"repo"}},
	}

	r := NewRegistry(cfg)
	assert.True(t, r.Enabled(account.ProviderGitHub))
	assert.False(t, r.Enabled(account.ProviderGitLab))
	assert.Equal(t, []account.ProviderID{account.ProviderGitHub}, r.IDs())

	cfg.GitLab = config.GitLabConfig{ClientID: "gl", ClientSecret: "gl-secret", URL: "https://gitlab.example.com"}
	r = NewRegistry(cfg)
	assert.Equal(t, []account.ProviderID{account.ProviderGitHub, account.ProviderGitLab}, r.IDs())
	p, ok := r.Get(account.ProviderGitLab)
	require.True(t, ok)

	u, err := url.Parse(p.AuthCodeURL("s"))
	require.NoError(t, err)
	assert.Equal(t, "gitlab.example.com", u.Host)
	assert.Equal(t, "/oauth/authorize", u.Path)
	assert.Equal(t, "http://localhost:8080/api/auth/gitlab/callback", u.Query().Get("redirect_uri"))
}

func TestRegistryUnknownProvider(t *testing.T) {
	r := NewRegistry(&config.Config{GitHub: config.GitHubConfig{ClientID: "gh", ClientSecret: "s"}})

	_, err := r.AuthCodeURL(account.ProviderGitLab, "s")
	assert.ErrorIs(t, err, account.ErrProvider)

	_, err = r.Exchange(context.Background(), account.ProviderGitLab, "code")
	assert.ErrorIs(t, err, account.ErrProvider)
}
