package database

import (
	"context"
	"time"
)

const createSession = `
INSERT INTO sessions (id, user_id, expires_at, user_agent, ip_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateSessionParams struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	UserAgent string
	IpAddress string
	CreatedAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg *CreateSessionParams) error {
	_, err := q.db.ExecContext(ctx, createSession,
		arg.ID,
		arg.UserID,
		arg.ExpiresAt,
		arg.UserAgent,
		arg.IpAddress,
		arg.CreatedAt,
	)
	return err
}

const getSessionByID = `
SELECT id, user_id, expires_at, user_agent, ip_address, created_at
FROM sessions WHERE id = $1
`

func (q *Queries) GetSessionByID(ctx context.Context, id string) (*Session, error) {
	row := q.db.QueryRowContext(ctx, getSessionByID, id)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ExpiresAt,
		&i.UserAgent,
		&i.IpAddress,
		&i.CreatedAt,
	)
	return &i, err
}

const deleteSession = `DELETE FROM sessions WHERE id = $1`

func (q *Queries) DeleteSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, id)
	return err
}

const deleteSessionsByUser = `DELETE FROM sessions WHERE user_id = $1`

func (q *Queries) DeleteSessionsByUser(ctx context.Context, userID string) error {
	_, err := q.db.ExecContext(ctx, deleteSessionsByUser, userID)
	return err
}

const deleteExpiredSessions = `DELETE FROM sessions WHERE expires_at <= $1`

func (q *Queries) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpiredSessions, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
