package handlers

import (
	"github.com/gin-gonic/gin"

	"git-away/internal/middleware"
)

// Handlers groups every handler the router serves
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	User       *UserHandler
	Account    *AccountHandler
	Repository *RepositoryHandler
	Page       *PageHandler
}

// Register mounts the JSON API under /api and the HTML pages at the root
func (h *Handlers) Register(router *gin.Engine, am *middleware.AuthMiddleware) {
	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Health)

		authGroup := api.Group("/auth")
		{
			authGroup.GET("/:provider/login", am.OptionalAuth(), h.Auth.Login)
			authGroup.GET("/:provider/callback", am.OptionalAuth(), h.Auth.Callback)
			authGroup.POST("/sign-out", am.RequireAuth(), h.Auth.SignOut)
			authGroup.GET("/session", am.RequireAuth(), h.Auth.Session)
			authGroup.POST("/token", am.RequireAuth(), h.Auth.IssueToken)
		}

		protected := api.Group("")
		protected.Use(am.RequireAuth())
		{
			protected.GET("/me", h.User.GetCurrentUser)
			protected.DELETE("/me", h.User.DeleteCurrentUser)

			protected.GET("/accounts", h.Account.ListConnections)
			protected.DELETE("/accounts/:provider", h.Account.Disconnect)
			protected.GET("/debug/token-scope", h.Account.TokenScope)

			protected.GET("/github/repos", h.Repository.ListRepositories)
			protected.GET("/github/repos/:owner/:repo/last-commit", h.Repository.GetLastCommit)
			protected.POST("/github/repos/:owner/:repo/webhooks", h.Repository.CreateWebhook)
			protected.DELETE("/github/repos/:owner/:repo/webhooks/:id", h.Repository.DeleteWebhook)
		}
	}

	router.GET("/sign-in", am.OptionalAuth(), h.Page.SignIn)

	pages := router.Group("")
	pages.Use(am.RequirePage())
	{
		pages.GET("/", h.Page.Dashboard)
		pages.GET("/tokens", h.Page.Tokens)
		pages.POST("/tokens/cli-token", h.Page.CreateCLIToken)
		pages.GET("/profile", h.Page.Profile)
	}
}
