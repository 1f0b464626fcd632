package user

import (
	"git-away/internal/domain/events"
)

// Event types
const (
	EventTypeUserCreated = "user.created"
)

// UserCreatedEvent is raised when a first sign-in creates a user
type UserCreatedEvent struct {
	events.BaseEvent
	Username string
	Provider string
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(userID, username, provider string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeUserCreated, userID),
		Username:  username,
		Provider:  provider,
	}
}

func (e *UserCreatedEvent) Fields() map[string]string {
	return map[string]string{"username": e.Username, "provider": e.Provider}
}
