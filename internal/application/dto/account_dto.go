package dto

import "time"

// ExpectedGitHubScope is the scope the GitHub application requests
const ExpectedGitHubScope = "repo admin:repo_hook read:user user:email"

// ConnectionResponse describes one provider row of the tokens page.
// Token values are never returned, only short prefixes.
type ConnectionResponse struct {
	Provider           string     `json:"provider"`
	DisplayName        string     `json:"displayName"`
	Enabled            bool       `json:"enabled"`
	Connected          bool       `json:"connected"`
	AccountID          string     `json:"accountId,omitempty"`
	Scope              string     `json:"scope,omitempty"`
	AccessTokenPrefix  string     `json:"accessTokenPrefix,omitempty"`
	RefreshTokenPrefix string     `json:"refreshTokenPrefix,omitempty"`
	ExpiresAt          *time.Time `json:"expiresAt,omitempty"`
	ConnectedAt        *time.Time `json:"connectedAt,omitempty"`
}

// ConnectionListResponse lists every supported provider for the caller
type ConnectionListResponse struct {
	Connections []*ConnectionResponse `json:"connections"`
}

// TokenScopeResponse is the GitHub credential diagnostic
type TokenScopeResponse struct {
	Scope          string     `json:"scope"`
	HasAccessToken bool       `json:"hasAccessToken"`
	TokenPrefix    string     `json:"tokenPrefix"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	ExpectedScope  string     `json:"expectedScope"`
}
