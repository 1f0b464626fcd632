package account

import (
	"context"

	"git-away/internal/domain/user"
)

// Repository defines the interface for credential persistence.
// Lookups that find nothing return an error matching ErrNotFound.
type Repository interface {
	// Save inserts the account or replaces the one stored for the same (user, provider)
	Save(ctx context.Context, account *Account) error

	// FindByUserAndProvider retrieves the credential a user holds for a provider
	FindByUserAndProvider(ctx context.Context, userID user.UserID, provider ProviderID) (*Account, error)

	// FindByProviderAccount retrieves the credential linked to a provider-side account
	FindByProviderAccount(ctx context.Context, provider ProviderID, accountID string) (*Account, error)

	// ListByUser returns every credential of a user
	ListByUser(ctx context.Context, userID user.UserID) ([]*Account, error)

	// DeleteByUserAndProvider removes a credential
	DeleteByUserAndProvider(ctx context.Context, userID user.UserID, provider ProviderID) error
}
