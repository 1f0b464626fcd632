package account

import (
	"fmt"
	"strings"
	"time"

	"git-away/internal/domain/user"
)

// Tokens is the token material returned by an OAuth exchange
type Tokens struct {
	AccessToken  string
	RefreshToken string
	Scope        string
	ExpiresAt    *time.Time
}

// Account is the credential a user holds for one provider.
// There is at most one Account per (user, provider).
type Account struct {
	id                   ID
	userID               user.UserID
	provider             ProviderID
	accountID            string
	accessToken          string
	refreshToken         string
	scope                string
	accessTokenExpiresAt *time.Time
	createdAt            time.Time
	updatedAt            time.Time
}

// NewAccount links a provider account to a user
func NewAccount(userID user.UserID, provider ProviderID, accountID string, tokens Tokens) (*Account, error) {
	if userID.IsZero() {
		return nil, ErrInvalidAccountData("user ID", fmt.Errorf("user ID cannot be empty"))
	}
	if _, err := ParseProviderID(provider.String()); err != nil {
		return nil, err
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, ErrInvalidAccountData("account ID", fmt.Errorf("provider account ID cannot be empty"))
	}

	now := time.Now().UTC()
	return &Account{
		id:                   NewID(),
		userID:               userID,
		provider:             provider,
		accountID:            accountID,
		accessToken:          tokens.AccessToken,
		refreshToken:         tokens.RefreshToken,
		scope:                tokens.Scope,
		accessTokenExpiresAt: tokens.ExpiresAt,
		createdAt:            now,
		updatedAt:            now,
	}, nil
}

// Reconstitute recreates an Account from persistence
func Reconstitute(
	id, userID, provider, accountID string,
	tokens Tokens,
	createdAt, updatedAt time.Time,
) (*Account, error) {
	accID, err := ParseID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid account ID: %w", err)
	}

	uid, err := user.ParseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	providerID, err := ParseProviderID(provider)
	if err != nil {
		return nil, err
	}

	return &Account{
		id:                   accID,
		userID:               uid,
		provider:             providerID,
		accountID:            accountID,
		accessToken:          tokens.AccessToken,
		refreshToken:         tokens.RefreshToken,
		scope:                tokens.Scope,
		accessTokenExpiresAt: tokens.ExpiresAt,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}, nil
}

// UpdateTokens replaces the token material after a new authorization.
// An empty refresh token keeps the stored one; providers only send it once.
func (a *Account) UpdateTokens(tokens Tokens) {
	a.accessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		a.refreshToken = tokens.RefreshToken
	}
	if tokens.Scope != "" {
		a.scope = tokens.Scope
	}
	a.accessTokenExpiresAt = tokens.ExpiresAt
	a.updatedAt = time.Now().UTC()
}

// HasAccessToken reports whether an access token is stored
func (a *Account) HasAccessToken() bool {
	return a.accessToken != ""
}

// TokenPrefix returns at most n leading characters of the access token
func (a *Account) TokenPrefix(n int) string {
	return prefix(a.accessToken, n)
}

// RefreshTokenPrefix returns at most n leading characters of the refresh token
func (a *Account) RefreshTokenPrefix(n int) string {
	return prefix(a.refreshToken, n)
}

// IsExpired reports whether the access token has a known expiry before now
func (a *Account) IsExpired(now time.Time) bool {
	return a.accessTokenExpiresAt != nil && !a.accessTokenExpiresAt.After(now)
}

// BelongsToUser checks if the account belongs to the specified user
func (a *Account) BelongsToUser(userID user.UserID) bool {
	return a.userID.Equals(userID)
}

func prefix(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Getters

func (a *Account) ID() ID {
	return a.id
}

func (a *Account) UserID() user.UserID {
	return a.userID
}

func (a *Account) Provider() ProviderID {
	return a.provider
}

func (a *Account) AccountID() string {
	return a.accountID
}

func (a *Account) AccessToken() string {
	return a.accessToken
}

func (a *Account) RefreshToken() string {
	return a.refreshToken
}

func (a *Account) Scope() string {
	return a.scope
}

func (a *Account) AccessTokenExpiresAt() *time.Time {
	return a.accessTokenExpiresAt
}

func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Account) UpdatedAt() time.Time {
	return a.updatedAt
}

// String never includes token material
func (a *Account) String() string {
	return fmt.Sprintf("Account{id: %s, provider: %s, userID: %s}",
		a.id.String(), a.provider, a.userID.String())
}
