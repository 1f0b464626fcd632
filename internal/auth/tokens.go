package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer        = "git-away"
	audienceSess  = "git-away:session"
	audienceState = "git-away:oauth-state"
)

// Flow modes carried in the OAuth state
const (
	ModeSignIn  = "sign-in"
	ModeConnect = "connect"
)

// ErrInvalidToken is returned for any token that fails verification
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims are the claims of a session token
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// StateClaims are the claims of an OAuth state token
type StateClaims struct {
	Provider string `json:"provider"`
	Mode     string `json:"mode"`
	UserID   string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// Nonce returns the unique id of the state
func (c *StateClaims) Nonce() string {
	return c.ID
}

// TokenManager signs and verifies HS256 session and OAuth state tokens
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager creates a TokenManager keyed by secret
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// SignSession issues the token for a stored session
func (m *TokenManager) SignSession(userID, sessionID string, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audienceSess},
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return m.sign(claims)
}

// ParseSession verifies a session token
func (m *TokenManager) ParseSession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := m.parse(token, claims, audienceSess); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing subject or session", ErrInvalidToken)
	}
	return claims, nil
}

// SignState issues a short-lived OAuth state token. It returns the token and its nonce.
func (m *TokenManager) SignState(provider, mode, userID string, ttl time.Duration) (string, string, error) {
	now := m.now()
	nonce := uuid.NewString()
	claims := StateClaims{
		Provider: provider,
		Mode:     mode,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audienceState},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := m.sign(claims)
	return token, nonce, err
}

// ParseState verifies an OAuth state token
func (m *TokenManager) ParseState(token string) (*StateClaims, error) {
	claims := &StateClaims{}
	if err := m.parse(token, claims, audienceState); err != nil {
		return nil, err
	}
	if claims.Mode == ModeConnect && claims.UserID == "" {
		return nil, fmt.Errorf("%w: connect state without user", ErrInvalidToken)
	}
	return claims, nil
}

func (m *TokenManager) sign(claims jwt.Claims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (m *TokenManager) parse(token string, claims jwt.Claims, audience string) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
