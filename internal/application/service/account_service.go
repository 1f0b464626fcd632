package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"git-away/internal/application/dto"
	"git-away/internal/domain/account"
	"git-away/internal/domain/events"
	"git-away/internal/domain/user"
	apperrors "git-away/internal/errors"
)

const (
	scopeTokenPrefixLen      = 8
	connectionTokenPrefixLen = 10
)

// OAuthProviders is the set of OAuth applications the server is configured with
type OAuthProviders interface {
	Enabled(provider account.ProviderID) bool
	AuthCodeURL(provider account.ProviderID, state string) (string, error)
	Exchange(ctx context.Context, provider account.ProviderID, code string) (account.Tokens, error)
	Refresh(ctx context.Context, provider account.ProviderID, refreshToken string) (account.Tokens, error)
}

// AccountService handles stored provider credentials
type AccountService struct {
	accountRepo account.Repository
	providers   OAuthProviders
	publisher   events.Publisher
	now         func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository, providers OAuthProviders, publisher events.Publisher) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		providers:   providers,
		publisher:   publisher,
		now:         time.Now,
	}
}

// AccessToken returns a usable access token for the user's provider credential.
// An expired token is refreshed when a refresh token is stored.
func (s *AccountService) AccessToken(ctx context.Context, userID user.UserID, provider account.ProviderID) (string, error) {
	acc, err := s.accountRepo.FindByUserAndProvider(ctx, userID, provider)
	if err != nil {
		if stderrors.Is(err, account.ErrNotFound) {
			return "", apperrors.NewNotConnectedError(provider.String())
		}
		return "", fmt.Errorf("failed to find account: %w", err)
	}

	if !acc.HasAccessToken() {
		return "", apperrors.NewTokenMissingError(provider.String())
	}

	if !acc.IsExpired(s.now()) {
		return acc.AccessToken(), nil
	}

	if acc.RefreshToken() == "" {
		return "", apperrors.NewAuthExpiredError(provider.String(), fmt.Errorf("access token expired at %s", acc.AccessTokenExpiresAt()))
	}

	tokens, err := s.providers.Refresh(ctx, provider, acc.RefreshToken())
	if err != nil {
		return "", apperrors.NewAuthExpiredError(provider.String(), err)
	}

	acc.UpdateTokens(tokens)
	if err := s.accountRepo.Save(ctx, acc); err != nil {
		return "", fmt.Errorf("failed to save refreshed account: %w", err)
	}

	log.Debug().
		Str("provider", provider.String()).
		Str("user_id", userID.String()).
		Msg("Refreshed access token")

	return acc.AccessToken(), nil
}

// ListConnections returns one row per supported provider, connected or not
func (s *AccountService) ListConnections(ctx context.Context, userID user.UserID) (*dto.ConnectionListResponse, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	byProvider := make(map[account.ProviderID]*account.Account, len(accounts))
	for _, acc := range accounts {
		byProvider[acc.Provider()] = acc
	}

	connections := make([]*dto.ConnectionResponse, 0, len(account.Providers))
	for _, provider := range account.Providers {
		conn := &dto.ConnectionResponse{
			Provider:    provider.String(),
			DisplayName: provider.DisplayName(),
			Enabled:     s.providers.Enabled(provider),
		}
		if acc, ok := byProvider[provider]; ok {
			fillConnection(conn, acc)
		}
		connections = append(connections, conn)
	}

	return &dto.ConnectionListResponse{Connections: connections}, nil
}

func fillConnection(conn *dto.ConnectionResponse, acc *account.Account) {
	createdAt := acc.CreatedAt()

	conn.Connected = true
	conn.AccountID = acc.AccountID()
	conn.Scope = acc.Scope()
	conn.ExpiresAt = acc.AccessTokenExpiresAt()
	conn.ConnectedAt = &createdAt
	if acc.HasAccessToken() {
		conn.AccessTokenPrefix = acc.TokenPrefix(connectionTokenPrefixLen) + "..."
	}
	if acc.RefreshToken() != "" {
		conn.RefreshTokenPrefix = acc.RefreshTokenPrefix(connectionTokenPrefixLen) + "..."
	}
}

// TokenScope reports what the stored GitHub credential was granted
func (s *AccountService) TokenScope(ctx context.Context, userID user.UserID) (*dto.TokenScopeResponse, error) {
	acc, err := s.accountRepo.FindByUserAndProvider(ctx, userID, account.ProviderGitHub)
	if err != nil {
		if stderrors.Is(err, account.ErrNotFound) {
			return nil, apperrors.NewNotConnectedError(account.ProviderGitHub.String())
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return &dto.TokenScopeResponse{
		Scope:          acc.Scope(),
		HasAccessToken: acc.HasAccessToken(),
		TokenPrefix:    acc.TokenPrefix(scopeTokenPrefixLen),
		CreatedAt:      acc.CreatedAt(),
		ExpiresAt:      acc.AccessTokenExpiresAt(),
		ExpectedScope:  dto.ExpectedGitHubScope,
	}, nil
}

// Disconnect removes a provider credential. The last remaining credential
// cannot be removed since the user would have no way to sign in again.
func (s *AccountService) Disconnect(ctx context.Context, userID user.UserID, provider string) error {
	providerID, err := account.ParseProviderID(provider)
	if err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}

	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	connected := false
	for _, acc := range accounts {
		if acc.Provider() == providerID {
			connected = true
		}
	}
	if !connected {
		return apperrors.NewNotConnectedError(providerID.String())
	}
	if len(accounts) == 1 {
		return apperrors.NewBadRequestError("Cannot disconnect the only connected account")
	}

	if err := s.accountRepo.DeleteByUserAndProvider(ctx, userID, providerID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	publish(ctx, s.publisher, account.NewAccountDisconnectedEvent(userID.String(), providerID))
	return nil
}

// publish dispatches an event; handler failures are logged and never fail the use case
func publish(ctx context.Context, publisher events.Publisher, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Dispatch(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_type", event.EventType()).Msg("Failed to dispatch event")
	}
}
