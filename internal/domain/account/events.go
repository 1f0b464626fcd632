package account

import (
	"git-away/internal/domain/events"
)

// Event types
const (
	EventTypeAccountConnected    = "account.connected"
	EventTypeAccountDisconnected = "account.disconnected"
)

// AccountConnectedEvent is raised when a provider is linked or re-authorized
type AccountConnectedEvent struct {
	events.BaseEvent
	UserID    string
	Provider  string
	AccountID string
	Scope     string
}

// NewAccountConnectedEvent creates a new AccountConnectedEvent
func NewAccountConnectedEvent(a *Account) *AccountConnectedEvent {
	return &AccountConnectedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeAccountConnected, a.ID().String()),
		UserID:    a.UserID().String(),
		Provider:  a.Provider().String(),
		AccountID: a.AccountID(),
		Scope:     a.Scope(),
	}
}

func (e *AccountConnectedEvent) Fields() map[string]string {
	return map[string]string{
		"user_id":    e.UserID,
		"provider":   e.Provider,
		"account_id": e.AccountID,
		"scope":      e.Scope,
	}
}

// AccountDisconnectedEvent is raised when a credential is removed
type AccountDisconnectedEvent struct {
	events.BaseEvent
	UserID   string
	Provider string
}

// NewAccountDisconnectedEvent creates a new AccountDisconnectedEvent
func NewAccountDisconnectedEvent(userID string, provider ProviderID) *AccountDisconnectedEvent {
	return &AccountDisconnectedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeAccountDisconnected, userID),
		UserID:    userID,
		Provider:  provider.String(),
	}
}

func (e *AccountDisconnectedEvent) Fields() map[string]string {
	return map[string]string{"user_id": e.UserID, "provider": e.Provider}
}
