package dto

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionResponse describes the caller's current session
type SessionResponse struct {
	User      *UserResponse `json:"user"`
	SessionID string        `json:"sessionId"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// TokenResponse carries a session token for a non-browser client
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
