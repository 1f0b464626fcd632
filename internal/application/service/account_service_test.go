package service_test

import (
	"context"
	"testing"
	"time"

	"git-away/internal/application/service"
	"git-away/internal/domain/account"
	apperrors "git-away/internal/errors"
)

func TestAccountService_AccessToken(t *testing.T) {
	accounts := newMockAccountRepository()
	svc := service.NewAccountService(accounts, newMockProviders(), nil)
	usr := mustUser("octo@example.com", "octocat")

	_ = accounts.Save(context.Background(), mustAccount(usr.ID(), account.ProviderGitHub, "1", account.Tokens{AccessToken: "gho_token"}))

	token, err := svc.AccessToken(context.Background(), usr.ID(), account.ProviderGitHub)
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if token != "gho_token" {
		t.Errorf("AccessToken() = %v, want gho_token", token)
	}
}

func TestAccountService_AccessTokenNotConnected(t *testing.T) {
	accounts := newMockAccountRepository()
	svc := service.NewAccountService(accounts, newMockProviders(), nil)
	usr := mustUser("octo@example.com", "octocat")

	_, err := svc.AccessToken(context.Background(), usr.ID(), account.ProviderGitHub)
	if !apperrors.IsNotConnected(err) {
		t.Fatalf("AccessToken() error = %v, want NOT_CONNECTED", err)
	}
	if got := err.(*apperrors.AppError).Message; got != "GitHub not connected" {
		t.Errorf("message = %q", got)
	}

	_ = accounts.Save(context.Background(), mustAccount(usr.ID(), account.ProviderGitHub, "1", account.Tokens{}))

	_, err = svc.AccessToken(context.Background(), usr.ID(), account.ProviderGitHub)
	if !apperrors.HasReason(err, apperrors.ReasonTokenMissing) {
		t.Fatalf("AccessToken() error = %v, want token_missing", err)
	}
}

func TestAccountService_AccessTokenRefresh(t *testing.T) {
	accounts := newMockAccountRepository()
	providers := newMockProviders()
	svc := service.NewAccountService(accounts, providers, nil)
	usr := mustUser("tanuki@example.com", "tanuki")

	expired := time.Now().Add(-time.Minute)
	later := time.Now().Add(time.Hour)
	providers.refreshed = account.Tokens{AccessToken: "fresh", ExpiresAt: &later}
	_ = accounts.Save(context.Background(), mustAccount(usr.ID(), account.ProviderGitLab, "7", account.Tokens{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		ExpiresAt:    &expired,
	}))

	token, err := svc.AccessToken(context.Background(), usr.ID(), account.ProviderGitLab)
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if token != "fresh" {
		t.Errorf("AccessToken() = %v, want fresh", token)
	}

	stored, _ := accounts.FindByUserAndProvider(context.Background(), usr.ID(), account.ProviderGitLab)
	if stored.RefreshToken() != "refresh" {
		t.Errorf("refresh token = %v, want it kept", stored.RefreshToken())
	}

	// a fresh token is served without another refresh
	if _, err := svc.AccessToken(context.Background(), usr.ID(), account.ProviderGitLab); err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if providers.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", providers.refreshes)
	}
}

func TestAccountService_AccessTokenExpired(t *testing.T) {
	accounts := newMockAccountRepository()
	providers := newMockProviders()
	svc := service.NewAccountService(accounts, providers, nil)
	usr := mustUser("tanuki@example.com", "tanuki")

	expired := time.Now().Add(-time.Minute)
	_ = accounts.Save(context.Background(), mustAccount(usr.ID(), account.ProviderGitLab, "7", account.Tokens{AccessToken: "stale", ExpiresAt: &expired}))

	_, err := svc.AccessToken(context.Background(), usr.ID(), account.ProviderGitLab)
	if !apperrors.IsAuthExpired(err) {
		t.Errorf("AccessToken() without refresh token error = %v, want AUTH_EXPIRED", err)
	}

	_ = accounts.Save(context.Background(), mustAccount(usr.ID(), account.ProviderGitLab, "7", account.Tokens{AccessToken: "stale", RefreshToken: "r", ExpiresAt: &expired}))
	providers.shouldError = true

	_, err = svc.AccessToken(context.Background(), usr.ID(), account.ProviderGitLab)
	if !apperrors.IsAuthExpired(err) {
		t.Errorf("AccessToken() with failing refresh error = %v, want AUTH_EXPIRED", err)
	}
}

func TestAccountService_ListConnections(t *testing.T) {
	accounts := newMockAccountRepository()
	providers := newMockProviders()
	providers.enabled[account.ProviderGitLab] = false
	svc := service.NewAccountService(accounts, providers, nil)
	usr := mustUser("octo@example.com", "octocat")

	_ = accounts.Save(context.Background(), mustAccount(usr.ID(), account.ProviderGitHub, "583231", account.Tokens{
		AccessToken: "gho_1234567890abcdef",
		Scope:       "repo",
	}))

	resp, err := svc.ListConnections(context.Background(), usr.ID())
	if err != nil {
		t.Fatalf("ListConnections() error = %v", err)
	}
	if len(resp.Connections) != 2 {
		t.Fatalf("len(Connections) = %d, want 2", len(resp.Connections))
	}

	github, gitlab := resp.Connections[0], resp.Connections[1]
	if !github.Connected || github.AccountID != "583231" {
		t.Errorf("github = %+v", github)
	}
	if github.AccessTokenPrefix != "gho_123456..." {
		t.Errorf("AccessTokenPrefix = %q", github.AccessTokenPrefix)
	}
	if github.RefreshTokenPrefix != "" {
		t.Errorf("RefreshTokenPrefix = %q, want empty", github.RefreshTokenPrefix)
	}
	if gitlab.Connected || gitlab.Enabled {
		t.Errorf("gitlab = %+v, want disconnected and disabled", gitlab)
	}
	if gitlab.DisplayName != "GitLab" {
		t.Errorf("DisplayName = %q", gitlab.DisplayName)
	}
}

func TestAccountService_TokenScope(t *testing.T) {
	accounts := newMockAccountRepository()
	svc := service.NewAccountService(accounts, newMockProviders(), nil)
	usr := mustUser("octo@example.com", "octocat")

	if _, err := svc.TokenScope(context.Background(), usr.ID()); !apperrors.IsNotConnected(err) {
		t.Fatalf("TokenScope() error = %v, want NOT_CONNECTED", err)
	}

	_ = accounts.Save(context.Background(), mustAccount(usr.ID(), account.ProviderGitHub, "1", account.Tokens{
		AccessToken: "gho_abcdefghijkl",
		Scope:       "repo read:user",
	}))

	resp, err := svc.TokenScope(context.Background(), usr.ID())
	if err != nil {
		t.Fatalf("TokenScope() error = %v", err)
	}
	if resp.TokenPrefix != "gho_abcd" {
		t.Errorf("TokenPrefix = %q, want 8 characters", resp.TokenPrefix)
	}
	if !resp.HasAccessToken {
		t.Error("HasAccessToken = false")
	}
	if resp.ExpectedScope != "repo admin:repo_hook read:user user:email" {
		t.Errorf("ExpectedScope = %q", resp.ExpectedScope)
	}
}

func TestAccountService_Disconnect(t *testing.T) {
	accounts := newMockAccountRepository()
	publisher := &recordingPublisher{}
	svc := service.NewAccountService(accounts, newMockProviders(), publisher)
	usr := mustUser("octo@example.com", "octocat")

	_ = accounts.Save(context.Background(), mustAccount(usr.ID(), account.ProviderGitHub, "1", account.Tokens{AccessToken: "a"}))

	if err := svc.Disconnect(context.Background(), usr.ID(), "github"); !apperrors.Is(err, apperrors.ErrCodeBadRequest) {
		t.Fatalf("Disconnect() of last account error = %v, want BAD_REQUEST", err)
	}
	if err := svc.Disconnect(context.Background(), usr.ID(), "gitlab"); !apperrors.IsNotConnected(err) {
		t.Fatalf("Disconnect() of missing account error = %v, want NOT_CONNECTED", err)
	}
	if err := svc.Disconnect(context.Background(), usr.ID(), "bitbucket"); !apperrors.Is(err, apperrors.ErrCodeBadRequest) {
		t.Fatalf("Disconnect() of unknown provider error = %v, want BAD_REQUEST", err)
	}

	_ = accounts.Save(context.Background(), mustAccount(usr.ID(), account.ProviderGitLab, "2", account.Tokens{AccessToken: "b"}))

	if err := svc.Disconnect(context.Background(), usr.ID(), "GitLab"); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if _, err := accounts.FindByUserAndProvider(context.Background(), usr.ID(), account.ProviderGitLab); err == nil {
		t.Error("account should be deleted")
	}
	if got := publisher.types(); len(got) != 1 || got[0] != account.EventTypeAccountDisconnected {
		t.Errorf("events = %v", got)
	}
}
