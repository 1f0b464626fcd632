package repo

import (
	"strconv"

	"git-away/internal/domain/events"
)

// Event types
const (
	EventTypeWebhookCreated = "webhook.created"
	EventTypeWebhookDeleted = "webhook.deleted"
)

// WebhookCreatedEvent is raised when a push webhook is registered
type WebhookCreatedEvent struct {
	events.BaseEvent
	UserID     string
	Repository string
	HookID     int64
}

// NewWebhookCreatedEvent creates a new WebhookCreatedEvent
func NewWebhookCreatedEvent(userID string, slug Slug, hookID int64) *WebhookCreatedEvent {
	return &WebhookCreatedEvent{
		BaseEvent:  events.NewBaseEvent(EventTypeWebhookCreated, slug.String()),
		UserID:     userID,
		Repository: slug.String(),
		HookID:     hookID,
	}
}

func (e *WebhookCreatedEvent) Fields() map[string]string {
	return map[string]string{"user_id": e.UserID, "repository": e.Repository, "hook_id": strconv.FormatInt(e.HookID, 10)}
}

// WebhookDeletedEvent is raised when a webhook is removed
type WebhookDeletedEvent struct {
	events.BaseEvent
	UserID     string
	Repository string
	HookID     int64
}

// NewWebhookDeletedEvent creates a new WebhookDeletedEvent
func NewWebhookDeletedEvent(userID string, slug Slug, hookID int64) *WebhookDeletedEvent {
	return &WebhookDeletedEvent{
		BaseEvent:  events.NewBaseEvent(EventTypeWebhookDeleted, slug.String()),
		UserID:     userID,
		Repository: slug.String(),
		HookID:     hookID,
	}
}

func (e *WebhookDeletedEvent) Fields() map[string]string {
	return map[string]string{"user_id": e.UserID, "repository": e.Repository, "hook_id": strconv.FormatInt(e.HookID, 10)}
}
