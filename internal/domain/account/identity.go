package account

import "context"

// Identity is the profile a provider reports for an access token
type Identity struct {
	Provider  ProviderID
	AccountID string
	Login     string
	Name      string
	Email     string
	AvatarURL string
	// EmailVerified is set when the provider confirmed the owner controls Email
	EmailVerified bool
}

// IdentityService resolves the provider account behind an access token
type IdentityService interface {
	FetchIdentity(ctx context.Context, accessToken string) (*Identity, error)
}
