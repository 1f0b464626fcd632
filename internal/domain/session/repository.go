package session

import (
	"context"
	"errors"
	"time"

	"git-away/internal/domain/user"
)

// ErrNotFound is returned when a session does not exist
var ErrNotFound = errors.New("session not found")

// Repository defines the interface for session persistence
type Repository interface {
	Save(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id ID) (*Session, error)
	Delete(ctx context.Context, id ID) error
	DeleteByUser(ctx context.Context, userID user.UserID) error
	// DeleteExpired removes sessions that ended before now and reports how many
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
