package repo

import (
	"context"
)

// Page selects one page of a provider listing
type Page struct {
	Number  int
	PerPage int
}

// WebhookConfig describes the push webhook to register
type WebhookConfig struct {
	URL    string
	Secret string
}

// HostingService is the port to the repository hosting provider.
// Implementations translate upstream failures into the application error set.
type HostingService interface {
	// ListRepositories returns one page of the token owner's repositories,
	// most recently updated first, without commit summaries
	ListRepositories(ctx context.Context, accessToken string, page Page) ([]*Repository, error)

	// GetLastCommit returns the newest commit on branch, or nil when none is
	// available. It only fails when ctx is done.
	GetLastCommit(ctx context.Context, accessToken string, slug Slug, branch string) (*CommitSummary, error)

	// CreateWebhook registers a push webhook on the repository
	CreateWebhook(ctx context.Context, accessToken string, slug Slug, cfg WebhookConfig) (*Webhook, error)

	// DeleteWebhook removes a webhook. A webhook that no longer exists is not an error.
	DeleteWebhook(ctx context.Context, accessToken string, slug Slug, hookID int64) error
}
