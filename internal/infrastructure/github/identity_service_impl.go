package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"git-away/internal/domain/account"
	apperrors "git-away/internal/errors"
	"git-away/internal/github"
)

// IdentityServiceImpl resolves the GitHub account behind an access token
type IdentityServiceImpl struct {
	client *github.Client
}

// NewIdentityService creates a new GitHub identity service
func NewIdentityService(client *github.Client) *IdentityServiceImpl {
	return &IdentityServiceImpl{client: client}
}

var _ account.IdentityService = (*IdentityServiceImpl)(nil)

// FetchIdentity returns the profile of the token owner. The email is only
// marked verified when the emails endpoint lists it as verified. A private
// email falls back to the verified primary address, then to the noreply one.
func (s *IdentityServiceImpl) FetchIdentity(ctx context.Context, accessToken string) (*account.Identity, error) {
	u, err := s.client.AuthenticatedUser(ctx, accessToken)
	if err != nil {
		if github.StatusCode(err) == http.StatusUnauthorized {
			return nil, apperrors.NewAuthExpiredError(provider, err)
		}
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("Failed to fetch GitHub profile: %s", github.Message(err)), err)
	}

	emails, err := s.client.Emails(ctx, accessToken)
	if err != nil {
		log.Warn().Err(err).Str("login", u.GetLogin()).Msg("Failed to fetch GitHub emails")
	}

	email := u.GetEmail()
	if email == "" {
		email = github.PrimaryVerified(emails)
	}
	verified := email != "" && github.IsVerified(emails, email)
	if email == "" {
		email = fmt.Sprintf("%d+%s@users.noreply.github.com", u.GetID(), u.GetLogin())
	}

	return &account.Identity{
		Provider:  account.ProviderGitHub,
		AccountID: strconv.FormatInt(u.GetID(), 10),
		Login:     u.GetLogin(),
		Name:      u.GetName(),
		Email:         email,
		AvatarURL:     u.GetAvatarURL(),
		EmailVerified: verified,
	}, nil
}
