package oauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
	oauthgitlab "golang.org/x/oauth2/gitlab"

	"git-away/internal/config"
	"git-away/internal/domain/account"
)

// Provider is one configured OAuth application
type Provider struct {
	id     account.ProviderID
	config *oauth2.Config
}

// NewProvider wraps an oauth2 configuration for a provider
func NewProvider(id account.ProviderID, cfg *oauth2.Config) *Provider {
	return &Provider{id: id, config: cfg}
}

// ID returns the provider the application belongs to
func (p *Provider) ID() account.ProviderID {
	return p.id
}

// AuthCodeURL returns the provider consent URL for state
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for tokens
func (p *Provider) Exchange(ctx context.Context, code string) (account.Tokens, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return account.Tokens{}, fmt.Errorf("failed to exchange %s code: %w", p.id, err)
	}
	return p.toTokens(token), nil
}

// Refresh obtains a new access token from a refresh token
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (account.Tokens, error) {
	source := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return account.Tokens{}, fmt.Errorf("failed to refresh %s token: %w", p.id, err)
	}
	return p.toTokens(token), nil
}

func (p *Provider) toTokens(token *oauth2.Token) account.Tokens {
	tokens := account.Tokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scope:        strings.Join(p.config.Scopes, " "),
	}
	if scope, ok := token.Extra("scope").(string); ok && scope != "" {
		// GitHub separates granted scopes with commas
		tokens.Scope = strings.Join(strings.FieldsFunc(scope, func(r rune) bool {
			return r == ',' || r == ' '
		}), " ")
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC().Truncate(time.Second)
		tokens.ExpiresAt = &expiry
	}
	return tokens
}

// Registry holds the providers enabled in configuration
type Registry struct {
	providers map[account.ProviderID]*Provider
}

// NewRegistry builds the providers from configuration. GitHub is always
// registered; GitLab only when its credentials are set.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{providers: make(map[account.ProviderID]*Provider)}

	r.Register(NewProvider(account.ProviderGitHub, &oauth2.Config{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		Endpoint:     oauthgithub.Endpoint,
		RedirectURL:  cfg.CallbackURL(account.ProviderGitHub.String()),
		Scopes:       cfg.GitHub.Scopes,
	}))

	if cfg.GitLabEnabled() {
		r.Register(NewProvider(account.ProviderGitLab, &oauth2.Config{
			ClientID:     cfg.GitLab.ClientID,
			ClientSecret: cfg.GitLab.ClientSecret,
			Endpoint:     gitlabEndpoint(cfg.GitLab.URL),
			RedirectURL:  cfg.CallbackURL(account.ProviderGitLab.String()),
			Scopes:       cfg.GitLab.Scopes,
		}))
	}

	return r
}

// Register adds or replaces a provider
func (r *Registry) Register(p *Provider) {
	r.providers[p.ID()] = p
}

// Get returns an enabled provider
func (r *Registry) Get(id account.ProviderID) (*Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// Enabled reports whether a provider is configured
func (r *Registry) Enabled(id account.ProviderID) bool {
	_, ok := r.providers[id]
	return ok
}

// IDs returns the enabled providers in display order
func (r *Registry) IDs() []account.ProviderID {
	ids := make([]account.ProviderID, 0, len(r.providers))
	for _, id := range account.Providers {
		if r.Enabled(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// AuthCodeURL returns the consent URL of an enabled provider
func (r *Registry) AuthCodeURL(id account.ProviderID, state string) (string, error) {
	p, ok := r.Get(id)
	if !ok {
		return "", account.ErrUnknownProvider(id.String())
	}
	return p.AuthCodeURL(state), nil
}

// Exchange trades a code with an enabled provider
func (r *Registry) Exchange(ctx context.Context, id account.ProviderID, code string) (account.Tokens, error) {
	p, ok := r.Get(id)
	if !ok {
		return account.Tokens{}, account.ErrUnknownProvider(id.String())
	}
	return p.Exchange(ctx, code)
}

// Refresh renews a token with an enabled provider
func (r *Registry) Refresh(ctx context.Context, id account.ProviderID, refreshToken string) (account.Tokens, error) {
	p, ok := r.Get(id)
	if !ok {
		return account.Tokens{}, account.ErrUnknownProvider(id.String())
	}
	return p.Refresh(ctx, refreshToken)
}

func gitlabEndpoint(baseURL string) oauth2.Endpoint {
	if baseURL == "" || baseURL == "https://gitlab.com" {
		return oauthgitlab.Endpoint
	}
	return oauth2.Endpoint{
		AuthURL:  baseURL + "/oauth/authorize",
		TokenURL: baseURL + "/oauth/token",
	}
}
