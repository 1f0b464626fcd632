package handlers

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"git-away/internal/application/dto"
	"git-away/internal/application/service"
	"git-away/internal/config"
	"git-away/internal/domain/account"
	apperrors "git-away/internal/errors"
	"git-away/internal/middleware"
	"git-away/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxDashboardPages caps how many listing pages one dashboard render loads
const maxDashboardPages = 10

// defaultRenderBudget applies when no enrichment render budget is configured
const defaultRenderBudget = 5 * time.Second

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

type page struct {
	Title    string
	SignedIn bool
}

type providerLink struct {
	ID   string
	Name string
}

type signInPage struct {
	page
	Error     string
	Providers []providerLink
}

type pageError struct {
	Message   string
	Reconnect string
}

type dashboardRepo struct {
	view.Item
	CommitURL string
}

type dashboardPage struct {
	page
	Repos     []dashboardRepo
	Error     *pageError
	HasMore   bool
	NextPages int
}

type tokensPage struct {
	page
	Connections []*dto.ConnectionResponse
	CLIToken    *dto.TokenResponse
	Error       string
}

type profilePage struct {
	page
	User    *dto.UserResponse
	Session *time.Time
}

// PageHandler renders the HTML pages
type PageHandler struct {
	repositoryService *service.RepositoryService
	accountService    *service.AccountService
	userService       *service.UserService
	authService       *service.AuthService
	enrichment        config.EnrichmentConfig
	providers         []providerLink
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	repositoryService *service.RepositoryService,
	accountService *service.AccountService,
	userService *service.UserService,
	authService *service.AuthService,
	enrichment config.EnrichmentConfig,
	enabled []account.ProviderID,
) *PageHandler {
	providers := make([]providerLink, 0, len(enabled))
	for _, p := range enabled {
		providers = append(providers, providerLink{ID: p.String(), Name: p.DisplayName()})
	}
	return &PageHandler{
		repositoryService: repositoryService,
		accountService:    accountService,
		userService:       userService,
		authService:       authService,
		enrichment:        enrichment,
		providers:         providers,
	}
}

// SignIn renders GET /sign-in
func (h *PageHandler) SignIn(c *gin.Context) {
	if _, ok := middleware.GetAuth(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "sign-in.html", signInPage{
		page:      page{Title: "Sign in"},
		Error:     c.Query("error"),
		Providers: h.providers,
	})
}

// Dashboard renders GET /, the repository list. The first `pages` listing
// pages are loaded in order, then enriched in groups for at most the render
// budget. Repositories still pending when the budget runs out render without
// a commit line and are fetched by the browser.
func (h *PageHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	ac, _ := middleware.GetAuth(c)
	pages := queryInt(c, "pages", 1)
	if pages > maxDashboardPages {
		pages = maxDashboardPages
	}

	repos := h.repositoryService.ForUser(ac.UserID)
	list := view.NewRepositoryList(h.enrichment.MaxAttempts)
	pager := view.NewPager(repos, list, nil, service.DefaultPerPage)

	data := dashboardPage{page: page{Title: "Repositories", SignedIn: true}}
	if err := pager.Load(ctx, pages); err != nil {
		data.Error = dashboardError(err)
		log.Ctx(ctx).Warn().Err(err).Str("user_id", ac.UserID.String()).Msg("Failed to load repositories")
	}
	if list.Len() > 0 {
		h.enrich(ctx, repos, list)
	}
	for _, item := range list.Snapshot() {
		data.Repos = append(data.Repos, dashboardRepo{Item: item, CommitURL: lastCommitURL(item.Repository)})
	}
	data.HasMore = data.Error == nil && pager.HasMore()
	data.NextPages = pager.Loaded() + 1

	c.HTML(http.StatusOK, "dashboard.html", data)
}

// enrich runs one enrichment pass over list bounded by the render budget
func (h *PageHandler) enrich(ctx context.Context, fetcher view.CommitFetcher, list *view.RepositoryList) {
	budget := h.enrichment.RenderBudget
	if budget <= 0 {
		budget = defaultRenderBudget
	}
	enrichCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	enricher := view.NewEnricher(fetcher,
		view.WithGroupSize(h.enrichment.GroupSize),
		view.WithFetchTimeout(min(h.enrichment.FetchTimeout, budget)),
	)
	stats, err := enricher.Run(enrichCtx, list)
	if err != nil {
		log.Ctx(ctx).Info().
			Dur("budget", budget).
			Int("enriched", stats.Enriched).
			Msg("Rendering before commit enrichment finished")
	}
}

// lastCommitURL is the JSON endpoint the browser uses for a pending repository
func lastCommitURL(r dto.RepositoryResponse) string {
	return fmt.Sprintf("/api/github/repos/%s/%s/last-commit?%s",
		url.PathEscape(r.Owner.Login), url.PathEscape(r.Name),
		url.Values{"branch": {r.Branch()}}.Encode())
}

func dashboardError(err error) *pageError {
	switch {
	case apperrors.IsNotConnected(err):
		return &pageError{Message: "GitHub is not connected to this account.", Reconnect: "Connect GitHub"}
	case apperrors.IsAuthExpired(err):
		return &pageError{Message: "GitHub authentication expired.", Reconnect: "Reconnect GitHub"}
	}

	message := "Failed to load repositories."
	if appErr, ok := asAppError(err); ok && appErr.Code == apperrors.ErrCodeUpstream {
		message = appErr.Message
	}
	return &pageError{Message: message}
}

// Tokens renders GET /tokens
func (h *PageHandler) Tokens(c *gin.Context) {
	h.renderTokens(c, nil)
}

// CreateCLIToken handles POST /tokens/cli-token and shows the new token once
func (h *PageHandler) CreateCLIToken(c *gin.Context) {
	ac, _ := middleware.GetAuth(c)

	token, err := h.authService.IssueToken(c.Request.Context(), ac, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to issue CLI token")
		c.Redirect(http.StatusSeeOther, "/tokens?error=Failed+to+create+a+CLI+token")
		return
	}
	h.renderTokens(c, token)
}

func (h *PageHandler) renderTokens(c *gin.Context, token *dto.TokenResponse) {
	ac, _ := middleware.GetAuth(c)

	data := tokensPage{
		page:     page{Title: "Tokens", SignedIn: true},
		CLIToken: token,
		Error:    c.Query("error"),
	}
	connections, err := h.accountService.ListConnections(c.Request.Context(), ac.UserID)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to list connections")
		data.Error = "Failed to load connected accounts."
	} else {
		data.Connections = connections.Connections
	}

	c.HTML(http.StatusOK, "tokens.html", data)
}

// Profile renders GET /profile
func (h *PageHandler) Profile(c *gin.Context) {
	ac, _ := middleware.GetAuth(c)

	u, err := h.userService.GetUser(c.Request.Context(), ac.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	expires := ac.ExpiresAt
	c.HTML(http.StatusOK, "profile.html", profilePage{
		page:    page{Title: "Profile", SignedIn: true},
		User:    u,
		Session: &expires,
	})
}
