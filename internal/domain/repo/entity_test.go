package repo_test

import (
	"testing"
	"time"

	"git-away/internal/domain/repo"
)

func TestNewCommitSummary(t *testing.T) {
	date := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		message     string
		author      string
		wantMessage string
		wantAuthor  string
	}{
		{"single line", "Fix login redirect", "Octo Cat", "Fix login redirect", "Octo Cat"},
		{"multi line keeps first", "Add pager\n\nLoads pages one at a time", "Octo Cat", "Add pager", "Octo Cat"},
		{"windows newline", "Add pager\r\nbody", "Octo Cat", "Add pager", "Octo Cat"},
		{"missing author", "Initial commit", "", "Initial commit", "Unknown"},
		{"blank author", "Initial commit", "   ", "Initial commit", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := repo.NewCommitSummary(tt.message, tt.author, date)
			if c.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", c.Message, tt.wantMessage)
			}
			if c.Author != tt.wantAuthor {
				t.Errorf("Author = %q, want %q", c.Author, tt.wantAuthor)
			}
			if !c.Date.Equal(date) {
				t.Errorf("Date = %v, want %v", c.Date, date)
			}
		})
	}
}

func TestRepositoryBranch(t *testing.T) {
	r := &repo.Repository{ID: 1, Name: "hello", Owner: repo.Owner{Login: "octocat"}}
	if r.Branch() != "main" {
		t.Errorf("Branch() = %v, want main", r.Branch())
	}

	r.DefaultBranch = "trunk"
	if r.Branch() != "trunk" {
		t.Errorf("Branch() = %v, want trunk", r.Branch())
	}

	if r.Slug().String() != "octocat/hello" {
		t.Errorf("Slug() = %v, want octocat/hello", r.Slug())
	}

	if r.HasLastCommit() {
		t.Error("HasLastCommit() should be false before enrichment")
	}
}
