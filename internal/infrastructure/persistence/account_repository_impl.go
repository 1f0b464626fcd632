package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"git-away/internal/database"
	"git-away/internal/domain/account"
	"git-away/internal/domain/user"
	"git-away/internal/infrastructure/encryption"
)

// TokenCipher encrypts token material at rest. binding identifies the
// credential a token belongs to.
type TokenCipher interface {
	EncryptToken(token, binding string) (string, error)
	DecryptToken(stored, binding string) (string, error)
}

// AccountRepositoryImpl implements the domain account.Repository interface.
// Access and refresh tokens are encrypted before they are written.
type AccountRepositoryImpl struct {
	db     *database.DB
	cipher TokenCipher
}

// NewAccountRepository creates a new account repository implementation
func NewAccountRepository(db *database.DB, cipher TokenCipher) *AccountRepositoryImpl {
	return &AccountRepositoryImpl{db: db, cipher: cipher}
}

var _ account.Repository = (*AccountRepositoryImpl)(nil)

// Save inserts the account or replaces the credential stored for the same (user, provider)
func (r *AccountRepositoryImpl) Save(ctx context.Context, acc *account.Account) error {
	binding := encryption.TokenBinding(acc.UserID().String(), acc.Provider().String())
	accessToken, err := r.cipher.EncryptToken(acc.AccessToken(), binding)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refreshToken, err := r.cipher.EncryptToken(acc.RefreshToken(), binding)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	var expiresAt sql.NullTime
	if t := acc.AccessTokenExpiresAt(); t != nil {
		expiresAt = sql.NullTime{Time: t.UTC(), Valid: true}
	}

	queries := database.New(r.db.GetConnection())
	err = queries.UpsertAccount(ctx, &database.UpsertAccountParams{
		ID:                   acc.ID().String(),
		UserID:               acc.UserID().String(),
		ProviderID:           acc.Provider().String(),
		AccountID:            acc.AccountID(),
		AccessToken:          accessToken,
		RefreshToken:         refreshToken,
		Scope:                acc.Scope(),
		AccessTokenExpiresAt: expiresAt,
		CreatedAt:            acc.CreatedAt().UTC(),
		UpdatedAt:            acc.UpdatedAt().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	return nil
}

// FindByUserAndProvider retrieves the credential a user holds for a provider
func (r *AccountRepositoryImpl) FindByUserAndProvider(ctx context.Context, userID user.UserID, provider account.ProviderID) (*account.Account, error) {
	queries := database.New(r.db.GetConnection())

	dbAccount, err := queries.GetAccountByUserAndProvider(ctx, userID.String(), provider.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrAccountNotFound(userID.String(), provider)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return r.toDomain(dbAccount)
}

// FindByProviderAccount retrieves the credential linked to a provider-side account
func (r *AccountRepositoryImpl) FindByProviderAccount(ctx context.Context, provider account.ProviderID, accountID string) (*account.Account, error) {
	queries := database.New(r.db.GetConnection())

	dbAccount, err := queries.GetAccountByProviderAccount(ctx, provider.String(), accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &account.DomainError{
				Code:    account.CodeAccountNotFound,
				Message: fmt.Sprintf("no user linked to %s account %s", provider, accountID),
			}
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return r.toDomain(dbAccount)
}

// ListByUser returns every credential of a user
func (r *AccountRepositoryImpl) ListByUser(ctx context.Context, userID user.UserID) ([]*account.Account, error) {
	queries := database.New(r.db.GetConnection())

	dbAccounts, err := queries.ListAccountsByUser(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]*account.Account, len(dbAccounts))
	for i, dbAccount := range dbAccounts {
		acc, err := r.toDomain(dbAccount)
		if err != nil {
			return nil, fmt.Errorf("failed to convert account: %w", err)
		}
		accounts[i] = acc
	}

	return accounts, nil
}

// DeleteByUserAndProvider removes a credential
func (r *AccountRepositoryImpl) DeleteByUserAndProvider(ctx context.Context, userID user.UserID, provider account.ProviderID) error {
	queries := database.New(r.db.GetConnection())

	n, err := queries.DeleteAccountByUserAndProvider(ctx, userID.String(), provider.String())
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if n == 0 {
		return account.ErrAccountNotFound(userID.String(), provider)
	}

	return nil
}

// toDomain converts a database account to a domain account, decrypting tokens
func (r *AccountRepositoryImpl) toDomain(dbAccount *database.Account) (*account.Account, error) {
	binding := encryption.TokenBinding(dbAccount.UserID, dbAccount.ProviderID)
	accessToken, err := r.cipher.DecryptToken(dbAccount.AccessToken, binding)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	refreshToken, err := r.cipher.DecryptToken(dbAccount.RefreshToken, binding)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}

	tokens := account.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Scope:        dbAccount.Scope,
	}
	if dbAccount.AccessTokenExpiresAt.Valid {
		t := dbAccount.AccessTokenExpiresAt.Time
		tokens.ExpiresAt = &t
	}

	return account.Reconstitute(
		dbAccount.ID,
		dbAccount.UserID,
		dbAccount.ProviderID,
		dbAccount.AccountID,
		tokens,
		dbAccount.CreatedAt,
		dbAccount.UpdatedAt,
	)
}
