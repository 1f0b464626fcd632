package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"git-away/internal/application/dto"
	"git-away/internal/domain/user"
	apperrors "git-away/internal/errors"
)

// UserService handles user-related use cases
type UserService struct {
	userRepo user.Repository
}

// NewUserService creates a new user service
func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, userID user.UserID) (*dto.UserResponse, error) {
	domainUser, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, user.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found", err)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return toUserDTO(domainUser), nil
}

// DeleteUser removes a user together with their credentials and sessions
func (s *UserService) DeleteUser(ctx context.Context, userID user.UserID) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// toUserDTO converts a domain user to DTO
func toUserDTO(u *user.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID().String(),
		Email:     u.Email().String(),
		Username:  u.Username().String(),
		Name:      u.Name(),
		Image:     u.Image(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
