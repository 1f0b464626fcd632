package user

import (
	"context"
)

// Repository defines the interface for user persistence
// This is defined in the domain layer, but implemented in infrastructure
type Repository interface {
	// Save persists a user (create or update)
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a user by their ID
	FindByID(ctx context.Context, id UserID) (*User, error)

	// FindByEmail retrieves a user by their email
	FindByEmail(ctx context.Context, email Email) (*User, error)

	// Delete removes a user and, through the schema, their accounts and sessions
	Delete(ctx context.Context, id UserID) error
}
