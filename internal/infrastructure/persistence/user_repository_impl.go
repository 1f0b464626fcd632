package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"git-away/internal/database"
	"git-away/internal/domain/user"
)

// UserRepositoryImpl implements the domain user.Repository interface
type UserRepositoryImpl struct {
	db *database.DB
}

// NewUserRepository creates a new user repository implementation
func NewUserRepository(db *database.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

var _ user.Repository = (*UserRepositoryImpl)(nil)

// Save persists a user (create or update)
func (r *UserRepositoryImpl) Save(ctx context.Context, usr *user.User) error {
	queries := database.New(r.db.GetConnection())

	err := queries.UpsertUser(ctx, &database.UpsertUserParams{
		ID:        usr.ID().String(),
		Name:      usr.Name(),
		Email:     usr.Email().String(),
		Username:  usr.Username().String(),
		Image:     usr.Image(),
		CreatedAt: usr.CreatedAt().UTC(),
		UpdatedAt: usr.UpdatedAt().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by their ID
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id user.UserID) (*user.User, error) {
	queries := database.New(r.db.GetConnection())

	dbUser, err := queries.GetUserByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound(id.String())
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.toDomain(dbUser)
}

// FindByEmail retrieves a user by their email
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	queries := database.New(r.db.GetConnection())

	dbUser, err := queries.GetUserByEmail(ctx, email.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound(email.String())
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.toDomain(dbUser)
}

// Delete removes a user; accounts and sessions go with it
func (r *UserRepositoryImpl) Delete(ctx context.Context, id user.UserID) error {
	queries := database.New(r.db.GetConnection())

	if err := queries.DeleteUser(ctx, id.String()); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// toDomain converts database user to domain user
func (r *UserRepositoryImpl) toDomain(dbUser *database.User) (*user.User, error) {
	return user.Reconstitute(
		dbUser.ID,
		dbUser.Email,
		dbUser.Username,
		dbUser.Name,
		dbUser.Image,
		dbUser.CreatedAt,
		dbUser.UpdatedAt,
	)
}
