package repo

import (
	"fmt"
	"strings"
	"time"
)

const unknownAuthor = "Unknown"

// Owner is the account that owns a repository on the hosting provider
type Owner struct {
	Login     string
	AvatarURL string
}

// Repository is a repository record as listed by the hosting provider.
// It is built fresh from every page fetch and never persisted.
type Repository struct {
	ID            int64
	Name          string
	FullName      string
	Owner         Owner
	Description   *string
	Private       bool
	HTMLURL       string
	DefaultBranch string
	UpdatedAt     time.Time

	// LastCommit is attached after listing, by enrichment
	LastCommit *CommitSummary
}

// Slug returns the owner/name pair addressing the repository upstream
func (r *Repository) Slug() Slug {
	return Slug{owner: r.Owner.Login, name: r.Name}
}

// Branch returns the branch enrichment should read, falling back to DefaultBranchName
func (r *Repository) Branch() string {
	if r.DefaultBranch == "" {
		return DefaultBranchName
	}
	return r.DefaultBranch
}

// HasLastCommit reports whether a commit summary is attached
func (r *Repository) HasLastCommit() bool {
	return r.LastCommit != nil
}

func (r *Repository) String() string {
	return fmt.Sprintf("Repository{id: %d, fullName: %s}", r.ID, r.FullName)
}

// CommitSummary is the most recent commit on a branch. Immutable once built.
type CommitSummary struct {
	Message string
	Author  string
	Date    time.Time
}

// NewCommitSummary keeps only the first line of message and names an
// unknown author when none is reported
func NewCommitSummary(message, author string, date time.Time) *CommitSummary {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	message = strings.TrimRight(message, "\r")

	if strings.TrimSpace(author) == "" {
		author = unknownAuthor
	}

	return &CommitSummary{
		Message: message,
		Author:  author,
		Date:    date,
	}
}

// Webhook is a push webhook registered on a repository
type Webhook struct {
	ID          int64
	Active      bool
	URL         string
	ContentType string
}
