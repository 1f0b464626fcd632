package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git-away/internal/domain/account"
	apperrors "git-away/internal/errors"
	"git-away/internal/gitlab"
)

const provider = "gitlab"

// IdentityServiceImpl resolves the GitLab account behind an access token
type IdentityServiceImpl struct {
	client *gitlab.Client
}

// NewIdentityService creates a new GitLab identity service
func NewIdentityService(client *gitlab.Client) *IdentityServiceImpl {
	return &IdentityServiceImpl{client: client}
}

var _ account.IdentityService = (*IdentityServiceImpl)(nil)

// FetchIdentity returns the profile of the token owner. Only the account
// email counts as verified, and only once the account is confirmed.
func (s *IdentityServiceImpl) FetchIdentity(ctx context.Context, accessToken string) (*account.Identity, error) {
	u, err := s.client.CurrentUser(ctx, accessToken)
	if err != nil {
		if gitlab.StatusCode(err) == http.StatusUnauthorized {
			return nil, apperrors.NewAuthExpiredError(provider, err)
		}
		return nil, apperrors.NewUpstreamError("Failed to fetch GitLab profile", err)
	}

	email := u.Email
	verified := email != "" && u.ConfirmedAt != nil
	if email == "" {
		email = u.PublicEmail
	}
	if email == "" {
		email = fmt.Sprintf("%s@users.noreply.gitlab.com", u.Username)
	}

	return &account.Identity{
		Provider:  account.ProviderGitLab,
		AccountID: strconv.Itoa(u.ID),
		Login:     u.Username,
		Name:      u.Name,
		Email:         email,
		AvatarURL:     u.AvatarURL,
		EmailVerified: verified,
	}, nil
}
