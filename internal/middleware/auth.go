package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"git-away/internal/auth"
	apperrors "git-away/internal/errors"
)

// Cookie names
const (
	SessionCookie = "gitaway_session"
	StateCookie   = "gitaway_oauth_state"
)

const authContextKey = "auth"

// SessionValidator resolves a session token to the caller it belongs to
type SessionValidator interface {
	Authenticate(ctx context.Context, token string) (*auth.Context, error)
}

// AuthMiddleware authenticates requests with the session token
type AuthMiddleware struct {
	sessions SessionValidator
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessions SessionValidator) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAuth is a Gin middleware for JSON endpoints. Requests without a
// valid session are rejected with 401 and no data.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.authenticate(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
				"code":  apperrors.ErrCodeUnauthenticated,
			})
			return
		}
		c.Next()
	}
}

// RequirePage is RequireAuth for HTML pages: it redirects to the sign-in page
func (am *AuthMiddleware) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.authenticate(c) {
			c.Redirect(http.StatusSeeOther, "/sign-in?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid session is present and
// lets the request through either way
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		am.authenticate(c)
		c.Next()
	}
}

func (am *AuthMiddleware) authenticate(c *gin.Context) bool {
	token := extractToken(c)
	if token == "" {
		return false
	}

	ac, err := am.sessions.Authenticate(c.Request.Context(), token)
	if err != nil {
		if !apperrors.IsUnauthenticated(err) {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Session lookup failed")
		}
		return false
	}

	c.Set(authContextKey, ac)
	c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), ac))
	return true
}

// extractToken reads the Authorization header first, then the session cookie.
// An explicit Bearer token is never shadowed by a stale browser cookie.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	return ""
}

// GetAuth returns the authenticated caller, if any
func GetAuth(c *gin.Context) (*auth.Context, bool) {
	value, ok := c.Get(authContextKey)
	if !ok {
		return nil, false
	}
	ac, ok := value.(*auth.Context)
	return ac, ok && ac != nil
}
