package database

import (
	"database/sql"
	"time"
)

type User struct {
	ID        string
	Name      string
	Email     string
	Username  string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Account struct {
	ID                   string
	UserID               string
	ProviderID           string
	AccountID            string
	AccessToken          string
	RefreshToken         string
	Scope                string
	AccessTokenExpiresAt sql.NullTime
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	UserAgent string
	IpAddress string
	CreatedAt time.Time
}
