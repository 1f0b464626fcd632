package dto

import (
	"time"

	"git-away/internal/domain/repo"
)

// OwnerResponse is the account that owns a repository
type OwnerResponse struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

// CommitSummaryResponse is the newest commit of a branch
type CommitSummaryResponse struct {
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// RepositoryResponse represents a repository in API responses
type RepositoryResponse struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	FullName      string                 `json:"fullName"`
	Owner         OwnerResponse          `json:"owner"`
	Description   *string                `json:"description"`
	Private       bool                   `json:"private"`
	HTMLURL       string                 `json:"htmlUrl"`
	DefaultBranch string                 `json:"defaultBranch"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	LastCommit    *CommitSummaryResponse `json:"lastCommit,omitempty"`
}

// RepositoryPageResponse is one page of the caller's repositories.
// HasMore is true when the page came back full; it does not promise another non-empty page.
type RepositoryPageResponse struct {
	Repos   []*RepositoryResponse `json:"repos"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"perPage"`
	HasMore bool                  `json:"hasMore"`
}

// LastCommitResponse wraps a possibly absent commit summary
type LastCommitResponse struct {
	LastCommit *CommitSummaryResponse `json:"lastCommit"`
}

// CreateWebhookRequest overrides the configured webhook target
type CreateWebhookRequest struct {
	URL    string `json:"url,omitempty" binding:"omitempty,url"`
	Secret string `json:"secret,omitempty"`
}

// WebhookResponse represents a registered webhook
type WebhookResponse struct {
	ID          int64  `json:"id"`
	Active      bool   `json:"active"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}

// NewRepositoryResponse converts a domain repository
func NewRepositoryResponse(r *repo.Repository) *RepositoryResponse {
	return &RepositoryResponse{
		ID:       r.ID,
		Name:     r.Name,
		FullName: r.FullName,
		Owner: OwnerResponse{
			Login:     r.Owner.Login,
			AvatarURL: r.Owner.AvatarURL,
		},
		Description:   r.Description,
		Private:       r.Private,
		HTMLURL:       r.HTMLURL,
		DefaultBranch: r.DefaultBranch,
		UpdatedAt:     r.UpdatedAt,
		LastCommit:    NewCommitSummaryResponse(r.LastCommit),
	}
}

// NewCommitSummaryResponse converts a domain commit summary; nil stays nil
func NewCommitSummaryResponse(c *repo.CommitSummary) *CommitSummaryResponse {
	if c == nil {
		return nil
	}
	return &CommitSummaryResponse{
		Message: c.Message,
		Author:  c.Author,
		Date:    c.Date,
	}
}

// NewWebhookResponse converts a domain webhook
func NewWebhookResponse(h *repo.Webhook) *WebhookResponse {
	return &WebhookResponse{
		ID:          h.ID,
		Active:      h.Active,
		URL:         h.URL,
		ContentType: h.ContentType,
	}
}

// Branch returns the branch to read the last commit from
func (r *RepositoryResponse) Branch() string {
	return repo.BranchOrDefault(r.DefaultBranch)
}
