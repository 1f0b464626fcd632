package database

import (
	"context"
	"database/sql"
	"time"
)

const upsertAccount = `
INSERT INTO accounts (
    id, user_id, provider_id, account_id, access_token, refresh_token,
    scope, access_token_expires_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (user_id, provider_id) DO UPDATE SET
    account_id = excluded.account_id,
    access_token = excluded.access_token,
    refresh_token = excluded.refresh_token,
    scope = excluded.scope,
    access_token_expires_at = excluded.access_token_expires_at,
    updated_at = excluded.updated_at
`

type UpsertAccountParams struct {
	ID                   string
	UserID               string
	ProviderID           string
	AccountID            string
	AccessToken          string
	RefreshToken         string
	Scope                string
	AccessTokenExpiresAt sql.NullTime
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (q *Queries) UpsertAccount(ctx context.Context, arg *UpsertAccountParams) error {
	_, err := q.db.ExecContext(ctx, upsertAccount,
		arg.ID,
		arg.UserID,
		arg.ProviderID,
		arg.AccountID,
		arg.AccessToken,
		arg.RefreshToken,
		arg.Scope,
		arg.AccessTokenExpiresAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const accountColumns = `id, user_id, provider_id, account_id, access_token, refresh_token,
    scope, access_token_expires_at, created_at, updated_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (*Account, error) {
	var i Account
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ProviderID,
		&i.AccountID,
		&i.AccessToken,
		&i.RefreshToken,
		&i.Scope,
		&i.AccessTokenExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return &i, err
}

const getAccountByUserAndProvider = `SELECT ` + accountColumns + `
FROM accounts WHERE user_id = $1 AND provider_id = $2`

func (q *Queries) GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) (*Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccountByUserAndProvider, userID, providerID))
}

const getAccountByProviderAccount = `SELECT ` + accountColumns + `
FROM accounts WHERE provider_id = $1 AND account_id = $2`

func (q *Queries) GetAccountByProviderAccount(ctx context.Context, providerID, accountID string) (*Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccountByProviderAccount, providerID, accountID))
}

const listAccountsByUser = `SELECT ` + accountColumns + `
FROM accounts WHERE user_id = $1 ORDER BY provider_id`

func (q *Queries) ListAccountsByUser(ctx context.Context, userID string) ([]*Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccountsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Account
	for rows.Next() {
		i, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAccountByUserAndProvider = `DELETE FROM accounts WHERE user_id = $1 AND provider_id = $2`

func (q *Queries) DeleteAccountByUserAndProvider(ctx context.Context, userID, providerID string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAccountByUserAndProvider, userID, providerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
