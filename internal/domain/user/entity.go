package user

import (
	"fmt"
	"strings"
	"time"
)

// User is a domain entity representing a signed-in person
type User struct {
	id        UserID
	name      string
	email     Email
	username  Username
	image     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new User entity with validation. An empty name falls back to the username.
func NewUser(email, username, name, image string) (*User, error) {
	emailVO, err := NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	usernameVO, err := NewUsername(username)
	if err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = usernameVO.String()
	}

	now := time.Now().UTC()
	return &User{
		id:        NewUserID(),
		name:      name,
		email:     emailVO,
		username:  usernameVO,
		image:     strings.TrimSpace(image),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates a User entity from persistence
func Reconstitute(id, email, username, name, image string, createdAt, updatedAt time.Time) (*User, error) {
	userID, err := ParseUserID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	emailVO, err := NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	usernameVO, err := NewUsername(username)
	if err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	return &User{
		id:        userID,
		name:      name,
		email:     emailVO,
		username:  usernameVO,
		image:     image,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// UpdateProfile refreshes the profile fields reported by the identity provider.
// Empty values leave the current value untouched.
func (u *User) UpdateProfile(name, image string) bool {
	changed := false
	if name = strings.TrimSpace(name); name != "" && name != u.name {
		u.name = name
		changed = true
	}
	if image = strings.TrimSpace(image); image != "" && image != u.image {
		u.image = image
		changed = true
	}
	if changed {
		u.updatedAt = time.Now().UTC()
	}
	return changed
}

// Getters

func (u *User) ID() UserID {
	return u.id
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Email() Email {
	return u.email
}

func (u *User) Username() Username {
	return u.username
}

func (u *User) Image() string {
	return u.image
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// String returns string representation (for debugging)
func (u *User) String() string {
	return fmt.Sprintf("User{id: %s, email: %s, username: %s}",
		u.id.String(), u.email.String(), u.username.String())
}
