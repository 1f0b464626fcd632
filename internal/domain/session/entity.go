package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"git-away/internal/domain/user"
)

// ID is a value object identifying a session
type ID struct {
	value uuid.UUID
}

// NewID creates a new ID
func NewID() ID {
	return ID{value: uuid.New()}
}

// ParseID parses a string into an ID
func ParseID(id string) (ID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ID{}, fmt.Errorf("invalid session ID format: %w", err)
	}
	return ID{value: uid}, nil
}

func (id ID) String() string {
	return id.value.String()
}

func (id ID) Equals(other ID) bool {
	return id.value == other.value
}

// Session is a signed-in browser or CLI session of a user
type Session struct {
	id        ID
	userID    user.UserID
	expiresAt time.Time
	userAgent string
	ipAddress string
	createdAt time.Time
}

// New starts a session that lasts ttl
func New(userID user.UserID, ttl time.Duration, userAgent, ipAddress string) (*Session, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("session requires a user")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session TTL must be positive")
	}

	now := time.Now().UTC()
	return &Session{
		id:        NewID(),
		userID:    userID,
		expiresAt: now.Add(ttl),
		userAgent: userAgent,
		ipAddress: ipAddress,
		createdAt: now,
	}, nil
}

// Reconstitute recreates a Session from persistence
func Reconstitute(id, userID string, expiresAt time.Time, userAgent, ipAddress string, createdAt time.Time) (*Session, error) {
	sid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	uid, err := user.ParseUserID(userID)
	if err != nil {
		return nil, err
	}
	return &Session{
		id:        sid,
		userID:    uid,
		expiresAt: expiresAt,
		userAgent: userAgent,
		ipAddress: ipAddress,
		createdAt: createdAt,
	}, nil
}

// IsExpired reports whether the session ended at or before now
func (s *Session) IsExpired(now time.Time) bool {
	return !s.expiresAt.After(now)
}

func (s *Session) ID() ID {
	return s.id
}

func (s *Session) UserID() user.UserID {
	return s.userID
}

func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

func (s *Session) UserAgent() string {
	return s.userAgent
}

func (s *Session) IPAddress() string {
	return s.ipAddress
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}
