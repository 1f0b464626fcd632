package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"git-away/internal/database"
	"git-away/internal/domain/session"
	"git-away/internal/domain/user"
)

// SessionRepositoryImpl implements the domain session.Repository interface
type SessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository implementation
func NewSessionRepository(db *database.DB) *SessionRepositoryImpl {
	return &SessionRepositoryImpl{db: db}
}

var _ session.Repository = (*SessionRepositoryImpl)(nil)

func (r *SessionRepositoryImpl) Save(ctx context.Context, s *session.Session) error {
	queries := database.New(r.db.GetConnection())

	err := queries.CreateSession(ctx, &database.CreateSessionParams{
		ID:        s.ID().String(),
		UserID:    s.UserID().String(),
		ExpiresAt: s.ExpiresAt().UTC(),
		UserAgent: s.UserAgent(),
		IpAddress: s.IPAddress(),
		CreatedAt: s.CreatedAt().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepositoryImpl) FindByID(ctx context.Context, id session.ID) (*session.Session, error) {
	queries := database.New(r.db.GetConnection())

	row, err := queries.GetSessionByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session.Reconstitute(row.ID, row.UserID, row.ExpiresAt, row.UserAgent, row.IpAddress, row.CreatedAt)
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id session.ID) error {
	if err := database.New(r.db.GetConnection()).DeleteSession(ctx, id.String()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepositoryImpl) DeleteByUser(ctx context.Context, userID user.UserID) error {
	if err := database.New(r.db.GetConnection()).DeleteSessionsByUser(ctx, userID.String()); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := database.New(r.db.GetConnection()).DeleteExpiredSessions(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return n, nil
}
