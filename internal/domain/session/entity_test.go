package session_test

import (
	"testing"
	"time"

	"git-away/internal/domain/session"
	"git-away/internal/domain/user"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		userID  user.UserID
		ttl     time.Duration
		wantErr bool
	}{
		{"valid", user.NewUserID(), time.Hour, false},
		{"missing user", user.UserID{}, time.Hour, true},
		{"zero ttl", user.NewUserID(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := session.New(tt.userID, tt.ttl, "curl/8", "127.0.0.1")
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && s.IsExpired(time.Now()) {
				t.Error("new session should not be expired")
			}
		})
	}
}

func TestIsExpired(t *testing.T) {
	expiresAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := session.Reconstitute(session.NewID().String(), user.NewUserID().String(), expiresAt, "", "", expiresAt.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Reconstitute() error = %v", err)
	}

	if s.IsExpired(expiresAt.Add(-time.Second)) {
		t.Error("IsExpired() before expiry = true")
	}
	if !s.IsExpired(expiresAt) {
		t.Error("IsExpired() at expiry = false")
	}
}
