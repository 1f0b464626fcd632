package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"git-away/docs"
	"git-away/internal/application/service"
	"git-away/internal/auth"
	"git-away/internal/config"
	"git-away/internal/database"
	"git-away/internal/domain/account"
	"git-away/internal/domain/events"
	"git-away/internal/domain/repo"
	"git-away/internal/domain/user"
	"git-away/internal/github"
	"git-away/internal/gitlab"
	"git-away/internal/infrastructure/encryption"
	infraGitHub "git-away/internal/infrastructure/github"
	infraGitLab "git-away/internal/infrastructure/gitlab"
	"git-away/internal/infrastructure/persistence"
	"git-away/internal/logging"
	"git-away/internal/middleware"
	"git-away/internal/oauth"
	"git-away/internal/presentation/handlers"
)

// @title git-away API
// @version 1.0
// @description GitHub repository dashboard with GitLab connections

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey SessionAuth
// @in header
// @name Authorization
// @description Session token from the gitaway_session cookie or POST /api/auth/token

const sessionPruneInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(cfg.Log)

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(&cfg.Database); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// Initialize database
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	cipher, err := encryption.NewEncryptionService(cfg.Encryption)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption")
	}

	// Initialize infrastructure layer
	// External service clients
	githubClient := github.NewClient(github.WithBaseURL(cfg.GitHub.APIURL))
	gitlabClient := gitlab.NewClient(cfg.GitLab.URL)
	providers := oauth.NewRegistry(cfg)

	// Infrastructure implementations of domain services
	hostingService := infraGitHub.NewGitHubService(githubClient)
	identities := map[account.ProviderID]account.IdentityService{
		account.ProviderGitHub: infraGitHub.NewIdentityService(githubClient),
		account.ProviderGitLab: infraGitLab.NewIdentityService(gitlabClient),
	}

	// Repository implementations
	userRepository := persistence.NewUserRepository(db)
	accountRepository := persistence.NewAccountRepository(db, cipher)
	sessionRepository := persistence.NewSessionRepository(db)

	dispatcher := events.NewDispatcher()
	dispatcher.Register(events.LogHandler,
		user.EventTypeUserCreated,
		account.EventTypeAccountConnected,
		account.EventTypeAccountDisconnected,
		repo.EventTypeWebhookCreated,
		repo.EventTypeWebhookDeleted,
	)

	// Initialize application layer
	authService := service.NewAuthService(
		userRepository,
		accountRepository,
		sessionRepository,
		providers,
		identities,
		auth.NewTokenManager(cfg.Session.Secret),
		dispatcher,
		cfg.Session.TTL,
	)
	accountService := service.NewAccountService(accountRepository, providers, dispatcher)
	repositoryService := service.NewRepositoryService(hostingService, accountService, dispatcher, cfg.Webhook)
	userService := service.NewUserService(userRepository)

	// Initialize presentation layer
	h := &handlers.Handlers{
		Health:     handlers.NewHealthHandler(db),
		Auth:       handlers.NewAuthHandler(authService, cfg.Session.SecureCookies),
		User:       handlers.NewUserHandler(userService),
		Account:    handlers.NewAccountHandler(accountService),
		Repository: handlers.NewRepositoryHandler(repositoryService),
		Page:       handlers.NewPageHandler(repositoryService, accountService, userService, authService, cfg.Enrichment, providers.IDs()),
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)

	templates, err := handlers.Templates()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse page templates")
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.SetHTMLTemplate(templates)

	h.Register(router, authMiddleware)

	// Swagger documentation
	docs.SwaggerInfo.Host = hostOf(cfg.Server.BaseURL)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go pruneSessions(ctx, authService)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.GetServerAddress()).Str("base_url", cfg.Server.BaseURL).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// pruneSessions deletes expired sessions until ctx is done
func pruneSessions(ctx context.Context, authService *service.AuthService) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authService.PruneSessions(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to prune sessions")
				continue
			}
			if n > 0 {
				log.Info().Int64("count", n).Msg("Pruned expired sessions")
			}
		}
	}
}

func hostOf(baseURL string) string {
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return baseURL
}
