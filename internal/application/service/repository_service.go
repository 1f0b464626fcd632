package service

import (
	"context"
	"fmt"

	"git-away/internal/application/dto"
	"git-away/internal/config"
	"git-away/internal/domain/account"
	"git-away/internal/domain/events"
	"git-away/internal/domain/repo"
	"git-away/internal/domain/user"
	apperrors "git-away/internal/errors"
)

// Listing bounds for the repositories endpoint
const (
	DefaultPerPage = 30
	MaxPerPage     = 100
)

// AccessTokens resolves a user's access token for a provider
type AccessTokens interface {
	AccessToken(ctx context.Context, userID user.UserID, provider account.ProviderID) (string, error)
}

// RepositoryService handles repository-related use cases. Repositories are
// read from the hosting provider on every call and never stored.
type RepositoryService struct {
	hosting   repo.HostingService
	tokens    AccessTokens
	publisher events.Publisher
	webhook   config.WebhookConfig
}

// NewRepositoryService creates a new repository service
func NewRepositoryService(hosting repo.HostingService, tokens AccessTokens, publisher events.Publisher, webhook config.WebhookConfig) *RepositoryService {
	return &RepositoryService{
		hosting:   hosting,
		tokens:    tokens,
		publisher: publisher,
		webhook:   webhook,
	}
}

// ListRepositories returns one page of the user's GitHub repositories, most
// recently updated first. HasMore is set when the page is full.
func (s *RepositoryService) ListRepositories(ctx context.Context, userID user.UserID, page, perPage int) (*dto.RepositoryPageResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	token, err := s.tokens.AccessToken(ctx, userID, account.ProviderGitHub)
	if err != nil {
		return nil, err
	}

	repos, err := s.hosting.ListRepositories(ctx, token, repo.Page{Number: page, PerPage: perPage})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.RepositoryResponse, len(repos))
	for i, r := range repos {
		responses[i] = dto.NewRepositoryResponse(r)
	}

	return &dto.RepositoryPageResponse{
		Repos:   responses,
		Page:    page,
		PerPage: perPage,
		HasMore: len(repos) == perPage,
	}, nil
}

// GetLastCommit returns the newest commit on branch, or a nil summary when
// none is available. An empty branch means "main".
func (s *RepositoryService) GetLastCommit(ctx context.Context, userID user.UserID, owner, name, branch string) (*dto.LastCommitResponse, error) {
	slug, err := repo.NewSlug(owner, name)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	token, err := s.tokens.AccessToken(ctx, userID, account.ProviderGitHub)
	if err != nil {
		return nil, err
	}

	commit, err := s.hosting.GetLastCommit(ctx, token, slug, repo.BranchOrDefault(branch))
	if err != nil {
		return nil, fmt.Errorf("failed to get last commit: %w", err)
	}

	return &dto.LastCommitResponse{LastCommit: dto.NewCommitSummaryResponse(commit)}, nil
}

// CreateWebhook registers a push webhook on a repository. The request may
// override the configured target URL and secret.
func (s *RepositoryService) CreateWebhook(ctx context.Context, userID user.UserID, owner, name string, req *dto.CreateWebhookRequest) (*dto.WebhookResponse, error) {
	slug, err := repo.NewSlug(owner, name)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	cfg := repo.WebhookConfig{URL: s.webhook.URL, Secret: s.webhook.Secret}
	if req != nil && req.URL != "" {
		cfg.URL = req.URL
		cfg.Secret = req.Secret
	}
	if cfg.URL == "" {
		return nil, apperrors.NewBadRequestError("Webhook URL is not configured")
	}

	token, err := s.tokens.AccessToken(ctx, userID, account.ProviderGitHub)
	if err != nil {
		return nil, err
	}

	hook, err := s.hosting.CreateWebhook(ctx, token, slug, cfg)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, repo.NewWebhookCreatedEvent(userID.String(), slug, hook.ID))
	return dto.NewWebhookResponse(hook), nil
}

// DeleteWebhook removes a webhook from a repository
func (s *RepositoryService) DeleteWebhook(ctx context.Context, userID user.UserID, owner, name string, hookID int64) error {
	slug, err := repo.NewSlug(owner, name)
	if err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}
	if hookID <= 0 {
		return apperrors.NewBadRequestError("invalid webhook ID")
	}

	token, err := s.tokens.AccessToken(ctx, userID, account.ProviderGitHub)
	if err != nil {
		return err
	}

	if err := s.hosting.DeleteWebhook(ctx, token, slug, hookID); err != nil {
		return err
	}

	publish(ctx, s.publisher, repo.NewWebhookDeletedEvent(userID.String(), slug, hookID))
	return nil
}

// ForUser binds the service to one user for callers that page and enrich
// on that user's behalf
func (s *RepositoryService) ForUser(userID user.UserID) *UserRepositories {
	return &UserRepositories{svc: s, userID: userID}
}

// UserRepositories is a RepositoryService bound to one user
type UserRepositories struct {
	svc    *RepositoryService
	userID user.UserID
}

// ListRepositories lists one page for the bound user
func (u *UserRepositories) ListRepositories(ctx context.Context, page, perPage int) (*dto.RepositoryPageResponse, error) {
	return u.svc.ListRepositories(ctx, u.userID, page, perPage)
}

// GetLastCommit fetches the last commit for the bound user
func (u *UserRepositories) GetLastCommit(ctx context.Context, owner, name, branch string) (*dto.LastCommitResponse, error) {
	return u.svc.GetLastCommit(ctx, u.userID, owner, name, branch)
}
