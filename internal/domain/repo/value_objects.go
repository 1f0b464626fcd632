package repo

import (
	"fmt"
	"strings"
)

// DefaultBranchName is used when a caller does not name a branch
const DefaultBranchName = "main"

const maxNameLength = 100

// Slug is a value object addressing a repository as owner/name
type Slug struct {
	owner string
	name  string
}

// NewSlug creates a new Slug with validation
func NewSlug(owner, name string) (Slug, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)

	if owner == "" {
		return Slug{}, ErrInvalidRepositoryData("owner", fmt.Errorf("repository owner cannot be empty"))
	}
	if name == "" {
		return Slug{}, ErrInvalidRepositoryData("name", fmt.Errorf("repository name cannot be empty"))
	}
	if len(name) > maxNameLength {
		return Slug{}, ErrInvalidRepositoryData("name", fmt.Errorf("repository name too long (max %d characters)", maxNameLength))
	}
	if strings.Contains(owner, "/") || strings.Contains(name, "/") {
		return Slug{}, ErrInvalidRepositoryData("name", fmt.Errorf("owner and name cannot contain '/'"))
	}

	return Slug{owner: owner, name: name}, nil
}

// ParseFullName parses "owner/repo" into a Slug
func ParseFullName(fullName string) (Slug, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return Slug{}, ErrInvalidRepositoryData("full name", fmt.Errorf(`expected "owner/repo", got %q`, fullName))
	}
	return NewSlug(owner, name)
}

func (s Slug) Owner() string {
	return s.owner
}

func (s Slug) Name() string {
	return s.name
}

func (s Slug) String() string {
	return s.owner + "/" + s.name
}

func (s Slug) Equals(other Slug) bool {
	return s.owner == other.owner && s.name == other.name
}

// BranchOrDefault returns branch, or DefaultBranchName when it is blank
func BranchOrDefault(branch string) string {
	if b := strings.TrimSpace(branch); b != "" {
		return b
	}
	return DefaultBranchName
}
