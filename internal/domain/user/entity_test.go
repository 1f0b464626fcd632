package user_test

import (
	"errors"
	"testing"
	"time"

	"git-away/internal/domain/user"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		username string
		display  string
		wantName string
		wantErr  bool
	}{
		{"valid user", "test@example.com", "octocat", "The Octocat", "The Octocat", false},
		{"name falls back to username", "test@example.com", "octocat", "  ", "octocat", false},
		{"invalid email", "invalid", "octocat", "", "", true},
		{"invalid username", "test@example.com", "oct cat", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := user.NewUser(tt.email, tt.username, tt.display, "https://avatars.example.com/u/1")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewUser() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if usr.Name() != tt.wantName {
				t.Errorf("Name = %v, want %v", usr.Name(), tt.wantName)
			}
			if usr.Email().String() != tt.email {
				t.Errorf("Email = %v, want %v", usr.Email().String(), tt.email)
			}
			if usr.ID().IsZero() {
				t.Error("ID should be generated")
			}
		})
	}
}

func TestReconstitute(t *testing.T) {
	id := "550e8400-e29b-41d4-a716-446655440000"
	createdAt := time.Now().Add(-24 * time.Hour)
	updatedAt := time.Now()

	usr, err := user.Reconstitute(id, "test@example.com", "octocat", "Octo", "", createdAt, updatedAt)
	if err != nil {
		t.Fatalf("Reconstitute() error = %v", err)
	}

	if usr.ID().String() != id {
		t.Errorf("ID = %v, want %v", usr.ID().String(), id)
	}
	if usr.Username().String() != "octocat" {
		t.Errorf("Username = %v, want octocat", usr.Username().String())
	}
	if !usr.CreatedAt().Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", usr.CreatedAt(), createdAt)
	}

	if _, err := user.Reconstitute("bad", "test@example.com", "octocat", "", "", createdAt, updatedAt); err == nil {
		t.Error("Reconstitute() should reject an invalid ID")
	}
}

func TestUpdateProfile(t *testing.T) {
	usr, _ := user.NewUser("test@example.com", "octocat", "Octo", "")
	oldUpdatedAt := usr.UpdatedAt()

	time.Sleep(10 * time.Millisecond)

	if !usr.UpdateProfile("The Octocat", "https://avatars.example.com/u/1") {
		t.Fatal("UpdateProfile() should report a change")
	}
	if usr.Name() != "The Octocat" || usr.Image() != "https://avatars.example.com/u/1" {
		t.Errorf("profile not updated: %v %v", usr.Name(), usr.Image())
	}
	if !usr.UpdatedAt().After(oldUpdatedAt) {
		t.Error("UpdatedAt should move forward")
	}

	if usr.UpdateProfile("", "") {
		t.Error("UpdateProfile() with empty values should not change anything")
	}
}

func TestErrUserNotFoundMatches(t *testing.T) {
	err := user.ErrUserNotFound("abc")
	if !errors.Is(err, user.ErrNotFound) {
		t.Error("ErrUserNotFound should match ErrNotFound")
	}
}
