package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git-away/internal/application/dto"
	"git-away/internal/domain/repo"
	apperrors "git-away/internal/errors"
	"git-away/internal/middleware"
	"git-away/internal/presentation/handlers"
)

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[handlers.HealthResponse](t, w).Status)
}

func TestDataEndpointsRequireSession(t *testing.T) {
	f := newFixture(t)
	f.addRepos(3)

	paths := []string{
		"/api/github/repos",
		"/api/github/repos/octocat/repo-1/last-commit",
		"/api/debug/token-scope",
		"/api/accounts",
		"/api/me",
		"/api/auth/session",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := f.do(bearer(httptest.NewRequest(http.MethodGet, path, nil), "not-a-token"))

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			body := decode[map[string]any](t, w)
			assert.Equal(t, "UNAUTHENTICATED", body["code"])
			assert.NotContains(t, w.Body.String(), "repo-1")
		})
	}
}

func TestListRepositories_Pages(t *testing.T) {
	f := newFixture(t)
	f.addRepos(7)
	_, token := f.signIn(t, "gho_listing")

	w := f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/github/repos?page=1&per_page=5", nil), token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[dto.RepositoryPageResponse](t, w)
	assert.Len(t, first.Repos, 5)
	assert.True(t, first.HasMore)
	assert.Equal(t, 5, first.PerPage)

	w = f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/github/repos?page=2&per_page=5", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[dto.RepositoryPageResponse](t, w)
	assert.Len(t, second.Repos, 2)
	assert.False(t, second.HasMore)
	assert.Equal(t, 2, second.Page)

	assert.Equal(t, []string{"gho_listing", "gho_listing"}, f.hosting.tokens)
}

func TestListRepositories_Defaults(t *testing.T) {
	f := newFixture(t)
	f.addRepos(2)
	_, token := f.signIn(t, "gho_defaults")

	w := f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/github/repos?page=zero&per_page=-3", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[dto.RepositoryPageResponse](t, w)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 30, page.PerPage)
	assert.False(t, page.HasMore)
}

func TestListRepositories_Failures(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		listErr    error
		wantStatus int
		wantCode   string
	}{
		{"no github credential", "", nil, http.StatusNotFound, "NOT_CONNECTED"},
		{"expired token", "gho_old", apperrors.NewAuthExpiredError("github", nil), http.StatusInternalServerError, "AUTH_EXPIRED"},
		{"upstream failure", "gho_ok", apperrors.NewUpstreamError("API rate limit exceeded", nil), http.StatusInternalServerError, "UPSTREAM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.hosting.listErr = tt.listErr
			_, token := f.signIn(t, tt.token)

			w := f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/github/repos", nil), token))
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode[handlers.ErrorResponse](t, w)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestGetLastCommit(t *testing.T) {
	f := newFixture(t)
	f.addRepos(2)
	f.hosting.commits["octocat/repo-1"] = repo.NewCommitSummary("Fix login\n\nlong body", "Mona", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	_, token := f.signIn(t, "gho_commit")

	w := f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/github/repos/octocat/repo-1/last-commit?branch=main", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.LastCommitResponse](t, w)
	require.NotNil(t, got.LastCommit)
	assert.Equal(t, "Fix login", got.LastCommit.Message)
	assert.Equal(t, "Mona", got.LastCommit.Author)

	w = f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/github/repos/octocat/repo-2/last-commit", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"lastCommit":null}`, w.Body.String())
}

func TestWebhooks(t *testing.T) {
	f := newFixture(t)
	_, token := f.signIn(t, "gho_hooks")

	w := f.do(bearer(httptest.NewRequest(http.MethodPost, "/api/github/repos/octocat/repo-1/webhooks", nil), token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	hook := decode[dto.WebhookResponse](t, w)
	assert.Equal(t, "https://hooks.example.com/push", hook.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/github/repos/octocat/repo-1/webhooks", strings.NewReader(`{"url":"not a url"}`))
	req.Header.Set("Content-Type", "application/json")
	w = f.do(bearer(req, token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(bearer(httptest.NewRequest(http.MethodDelete, "/api/github/repos/octocat/repo-1/webhooks/1", nil), token))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int64{1}, f.hosting.deleted)

	w = f.do(bearer(httptest.NewRequest(http.MethodDelete, "/api/github/repos/octocat/repo-1/webhooks/abc", nil), token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountsAndTokenScope(t *testing.T) {
	f := newFixture(t)
	_, token := f.signIn(t, "gho_0123456789abcdef")

	w := f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/debug/token-scope", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	scope := decode[dto.TokenScopeResponse](t, w)
	assert.Equal(t, "gho_0123", scope.TokenPrefix)
	assert.True(t, scope.HasAccessToken)
	assert.NotContains(t, w.Body.String(), "gho_0123456789abcdef")

	w = f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/accounts", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ConnectionListResponse](t, w)
	require.Len(t, list.Connections, 2)
	assert.True(t, list.Connections[0].Connected)
	assert.False(t, list.Connections[1].Connected)
	assert.True(t, list.Connections[1].Enabled)

	w = f.do(bearer(httptest.NewRequest(http.MethodDelete, "/api/accounts/gitlab", nil), token))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(bearer(httptest.NewRequest(http.MethodDelete, "/api/accounts/github", nil), token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOAuthSignIn(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/github/login", nil))
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", location.Path)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	stateCookie := findCookie(w, middleware.StateCookie)
	require.NotNil(t, stateCookie)
	assert.True(t, stateCookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?code=good-code&state="+url.QueryEscape(state), nil)
	req.AddCookie(stateCookie)
	w = f.do(req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	session := findCookie(w, middleware.SessionCookie)
	require.NotNil(t, session)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(session)
	w = f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.SessionResponse](t, w)
	assert.Equal(t, "octocat", got.User.Username)

	// the stored credential is usable right away
	f.addRepos(1)
	req = httptest.NewRequest(http.MethodGet, "/api/github/repos", nil)
	req.AddCookie(session)
	w = f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"gho_fixture_token"}, f.hosting.tokens)
}

func TestOAuthCallbackRejected(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"state mismatch", "code=good-code&state=forged"},
		{"provider error", "error=access_denied&error_description=The+user+denied+access"},
		{"bad code", "code=bad-code&state=%s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			w := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/github/login", nil))
			location, _ := url.Parse(w.Header().Get("Location"))
			state := location.Query().Get("state")
			stateCookie := findCookie(w, middleware.StateCookie)

			query := strings.Replace(tt.query, "%s", url.QueryEscape(state), 1)
			req := httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?"+query, nil)
			req.AddCookie(stateCookie)
			w = f.do(req)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/sign-in?error="), w.Header().Get("Location"))
			assert.Nil(t, findCookie(w, middleware.SessionCookie))
		})
	}
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)
	_, token := f.signIn(t, "gho_bye")

	w := f.do(bearer(httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil), token))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssueToken(t *testing.T) {
	f := newFixture(t)
	_, token := f.signIn(t, "gho_cli")

	w := f.do(bearer(httptest.NewRequest(http.MethodPost, "/api/auth/token", nil), token))
	require.Equal(t, http.StatusCreated, w.Code)
	issued := decode[dto.TokenResponse](t, w)
	require.NotEmpty(t, issued.Token)
	assert.NotEqual(t, token, issued.Token)

	w = f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/me", nil), issued.Token))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteCurrentUser(t *testing.T) {
	f := newFixture(t)
	_, token := f.signIn(t, "gho_gone")

	w := f.do(bearer(httptest.NewRequest(http.MethodDelete, "/api/me", nil), token))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(bearer(httptest.NewRequest(http.MethodGet, "/api/me", nil), token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name && c.MaxAge >= 0 && c.Value != "" {
			return c
		}
	}
	return nil
}
