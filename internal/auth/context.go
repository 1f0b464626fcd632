package auth

import (
	"context"
	"time"

	"git-away/internal/domain/session"
	"git-away/internal/domain/user"
)

// Context is the authenticated caller of one request. It is built by the
// auth middleware from the session token and never shared across requests.
type Context struct {
	UserID    user.UserID
	SessionID session.ID
	ExpiresAt time.Time
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying ac
func NewContext(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext returns the caller stored in ctx, if any
func FromContext(ctx context.Context) (*Context, bool) {
	ac, ok := ctx.Value(contextKey{}).(*Context)
	return ac, ok && ac != nil
}
