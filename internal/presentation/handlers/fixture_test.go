package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"git-away/internal/application/service"
	"git-away/internal/auth"
	"git-away/internal/config"
	"git-away/internal/database"
	"git-away/internal/domain/account"
	"git-away/internal/domain/events"
	"git-away/internal/domain/repo"
	"git-away/internal/domain/user"
	apperrors "git-away/internal/errors"
	"git-away/internal/infrastructure/encryption"
	"git-away/internal/infrastructure/persistence"
	"git-away/internal/middleware"
	"git-away/internal/oauth"
	"git-away/internal/presentation/handlers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeHosting serves a fixed set of repositories and commits
type fakeHosting struct {
	mu       sync.Mutex
	repos    []*repo.Repository
	commits  map[string]*repo.CommitSummary
	hang     map[string]bool
	listErr  error
	tokens   []string
	hooks    []repo.WebhookConfig
	deleted  []int64
	commitCt int
}

func (f *fakeHosting) ListRepositories(_ context.Context, accessToken string, page repo.Page) ([]*repo.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, accessToken)
	if f.listErr != nil {
		return nil, f.listErr
	}

	start := (page.Number - 1) * page.PerPage
	if start >= len(f.repos) {
		return []*repo.Repository{}, nil
	}
	end := start + page.PerPage
	if end > len(f.repos) {
		end = len(f.repos)
	}
	out := make([]*repo.Repository, 0, end-start)
	for _, r := range f.repos[start:end] {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeHosting) GetLastCommit(ctx context.Context, _ string, slug repo.Slug, _ string) (*repo.CommitSummary, error) {
	f.mu.Lock()
	f.commitCt++
	hang := f.hang[slug.String()]
	commit := f.commits[slug.String()]
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return commit, nil
}

func (f *fakeHosting) CreateWebhook(_ context.Context, _ string, _ repo.Slug, cfg repo.WebhookConfig) (*repo.Webhook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = append(f.hooks, cfg)
	return &repo.Webhook{ID: int64(len(f.hooks)), Active: true, URL: cfg.URL, ContentType: "json"}, nil
}

func (f *fakeHosting) DeleteWebhook(_ context.Context, _ string, _ repo.Slug, hookID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, hookID)
	return nil
}

func (f *fakeHosting) commitCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commitCt
}

// fakeIdentity reports a fixed GitHub profile
type fakeIdentity struct {
	identity *account.Identity
}

func (f *fakeIdentity) FetchIdentity(_ context.Context, accessToken string) (*account.Identity, error) {
	if accessToken == "" {
		return nil, apperrors.NewUnauthenticatedError("no token")
	}
	return f.identity, nil
}

type fixture struct {
	router   *gin.Engine
	hosting  *fakeHosting
	users    *persistence.UserRepositoryImpl
	accounts *persistence.AccountRepositoryImpl
	auth     *service.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbCfg := &config.DatabaseConfig{
		Driver:   database.DriverSQLite,
		DSN:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxConns: 1,
		MinConns: 1,
	}
	db, err := database.NewConnection(dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateUp(dbCfg))

	key, err := encryption.GenerateKey()
	require.NoError(t, err)
	cipher, err := encryption.NewEncryptionService(config.EncryptionConfig{Key: key})
	require.NoError(t, err)

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"bad_verification_code"}`)
			return
		}
		fmt.Fprint(w, `{"access_token":"gho_fixture_token","token_type":"bearer","scope":"repo,read:user"}`)
	}))
	t.Cleanup(tokenServer.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{BaseURL: "http://localhost:8080"},
		GitHub: config.GitHubConfig{ClientID: "gh", ClientSecret: "gh-secret", Scopes: []string{"repo", "read:user"}},
	}
	registry := oauth.NewRegistry(cfg)
	registry.Register(oauth.NewProvider(account.ProviderGitHub, &oauth2.Config{
		ClientID:     "gh",
		ClientSecret: "gh-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   tokenServer.URL + "/authorize",
			TokenURL:  tokenServer.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: cfg.CallbackURL("github"),
		Scopes:      cfg.GitHub.Scopes,
	}))
	registry.Register(oauth.NewProvider(account.ProviderGitLab, &oauth2.Config{
		ClientID:     "gl",
		ClientSecret: "gl-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   tokenServer.URL + "/oauth/authorize",
			TokenURL:  tokenServer.URL + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: cfg.CallbackURL("gitlab"),
	}))

	users := persistence.NewUserRepository(db)
	accounts := persistence.NewAccountRepository(db, cipher)
	sessions := persistence.NewSessionRepository(db)
	hosting := &fakeHosting{commits: make(map[string]*repo.CommitSummary), hang: make(map[string]bool)}
	dispatcher := events.NewDispatcher()
	identities := map[account.ProviderID]account.IdentityService{
		account.ProviderGitHub: &fakeIdentity{identity: &account.Identity{
			Provider:      account.ProviderGitHub,
			AccountID:     "4242",
			Login:         "octocat",
			Name:          "The Octocat",
			Email:         "octocat@example.com",
			EmailVerified: true,
		}},
	}

	authService := service.NewAuthService(users, accounts, sessions, registry, identities,
		auth.NewTokenManager(strings.Repeat("k", 32)), dispatcher, time.Hour)
	accountService := service.NewAccountService(accounts, registry, dispatcher)
	repositoryService := service.NewRepositoryService(hosting, accountService, dispatcher,
		config.WebhookConfig{URL: "https://hooks.example.com/push"})
	userService := service.NewUserService(users)

	h := &handlers.Handlers{
		Health:     handlers.NewHealthHandler(db),
		Auth:       handlers.NewAuthHandler(authService, false),
		User:       handlers.NewUserHandler(userService),
		Account:    handlers.NewAccountHandler(accountService),
		Repository: handlers.NewRepositoryHandler(repositoryService),
		Page: handlers.NewPageHandler(repositoryService, accountService, userService, authService,
			config.EnrichmentConfig{GroupSize: 5, MaxAttempts: 3, FetchTimeout: time.Second, RenderBudget: 200 * time.Millisecond},
			registry.IDs()),
	}

	tmpl, err := handlers.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	h.Register(router, middleware.NewAuthMiddleware(authService))

	return &fixture{
		router:   router,
		hosting:  hosting,
		users:    users,
		accounts: accounts,
		auth:     authService,
	}
}

// signIn stores a user, optionally with a GitHub credential, and returns a session token
func (f *fixture) signIn(t *testing.T, githubToken string) (user.UserID, string) {
	t.Helper()
	ctx := context.Background()

	u, err := user.NewUser(uuid.NewString()+"@example.com", "dev-"+uuid.NewString()[:8], "Dev", "")
	require.NoError(t, err)
	require.NoError(t, f.users.Save(ctx, u))

	if githubToken != "" {
		acc, err := account.NewAccount(u.ID(), account.ProviderGitHub, uuid.NewString(), account.Tokens{
			AccessToken: githubToken,
			Scope:       "repo read:user",
		})
		require.NoError(t, err)
		require.NoError(t, f.accounts.Save(ctx, acc))
	}

	token, err := f.auth.IssueToken(ctx, &auth.Context{UserID: u.ID()}, "test", "127.0.0.1")
	require.NoError(t, err)
	return u.ID(), token.Token
}

func (f *fixture) addRepos(n int) {
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("repo-%d", i)
		f.hosting.repos = append(f.hosting.repos, &repo.Repository{
			ID:            int64(i),
			Name:          name,
			FullName:      "octocat/" + name,
			Owner:         repo.Owner{Login: "octocat"},
			HTMLURL:       "https://github.com/octocat/" + name,
			DefaultBranch: "main",
			UpdatedAt:     time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC),
		})
	}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
