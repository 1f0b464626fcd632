package account

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is a value object identifying a stored credential
type ID struct {
	value uuid.UUID
}

// NewID creates a new ID
func NewID() ID {
	return ID{value: uuid.New()}
}

// ParseID parses a string into an ID
func ParseID(id string) (ID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ID{}, fmt.Errorf("invalid account ID format: %w", err)
	}
	return ID{value: uid}, nil
}

func (id ID) String() string {
	return id.value.String()
}

func (id ID) Equals(other ID) bool {
	return id.value == other.value
}

// ProviderID names an OAuth identity and repository hosting provider
type ProviderID string

const (
	ProviderGitHub ProviderID = "github"
	ProviderGitLab ProviderID = "gitlab"
)

// Providers lists every supported provider in display order
var Providers = []ProviderID{ProviderGitHub, ProviderGitLab}

// ParseProviderID validates a provider name
func ParseProviderID(s string) (ProviderID, error) {
	switch p := ProviderID(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGitHub, ProviderGitLab:
		return p, nil
	default:
		return "", ErrUnknownProvider(s)
	}
}

func (p ProviderID) String() string {
	return string(p)
}

// DisplayName returns the provider's product name
func (p ProviderID) DisplayName() string {
	switch p {
	case ProviderGitHub:
		return "GitHub"
	case ProviderGitLab:
		return "GitLab"
	default:
		return string(p)
	}
}
