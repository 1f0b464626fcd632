package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"git-away/internal/application/service"
	"git-away/internal/auth"
	apperrors "git-away/internal/errors"
	"git-away/internal/middleware"
)

const stateCookieMaxAge = 10 * 60

// AuthHandler handles the OAuth flow and sessions
type AuthHandler struct {
	authService   *service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// Login handles GET /api/auth/:provider/login
// @Summary Start an OAuth flow
// @Description Redirects to the provider. With a session the provider is connected to the current user, otherwise the caller signs in.
// @Tags Authentication
// @Param provider path string true "Provider" Enums(github, gitlab)
// @Success 302
// @Failure 404 {object} ErrorResponse
// @Router /auth/{provider}/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	current, _ := middleware.GetAuth(c)

	redirect, err := h.authService.BeginLogin(c.Request.Context(), c.Param("provider"), current)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, middleware.StateCookie, redirect.State, stateCookieMaxAge, "/api/auth")
	c.Redirect(http.StatusFound, redirect.URL)
}

// Callback handles GET /api/auth/:provider/callback
// @Summary Complete an OAuth flow
// @Description Verifies the state, stores the credential and sets the session cookie on sign-in
// @Tags Authentication
// @Param provider path string true "Provider" Enums(github, gitlab)
// @Param code query string true "Authorization code"
// @Param state query string true "State"
// @Success 302
// @Router /auth/{provider}/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	cookieState, _ := c.Cookie(middleware.StateCookie)
	h.clear(c, middleware.StateCookie, "/api/auth")

	if providerErr := c.Query("error"); providerErr != "" {
		message := c.Query("error_description")
		if message == "" {
			message = providerErr
		}
		redirectWithError(c, "/sign-in", message)
		return
	}

	current, _ := middleware.GetAuth(c)
	result, err := h.authService.CompleteLogin(c.Request.Context(), &service.CallbackRequest{
		Provider:    c.Param("provider"),
		Code:        c.Query("code"),
		State:       c.Query("state"),
		CookieState: cookieState,
		Current:     current,
		UserAgent:   c.Request.UserAgent(),
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		_ = c.Error(err)
		target := "/sign-in"
		if current != nil {
			target = "/tokens"
		}
		redirectWithError(c, target, messageOf(err))
		return
	}

	if result.Mode == auth.ModeConnect {
		c.Redirect(http.StatusFound, "/tokens")
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	h.setCookie(c, middleware.SessionCookie, result.SessionToken, maxAge, "/")
	c.Redirect(http.StatusFound, "/")
}

// SignOut handles POST /api/auth/sign-out
// @Summary Sign out
// @Description Deletes the current session, or every session of the user with all=true
// @Tags Authentication
// @Security SessionAuth
// @Param all query bool false "Sign out everywhere"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	var err error
	if c.Query("all") == "true" {
		err = h.authService.SignOutEverywhere(c.Request.Context(), ac)
	} else {
		err = h.authService.SignOut(c.Request.Context(), ac)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.clear(c, middleware.SessionCookie, "/")
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/sign-in")
		return
	}
	c.Status(http.StatusNoContent)
}

// Session handles GET /api/auth/session
// @Summary Get the current session
// @Tags Authentication
// @Produce json
// @Security SessionAuth
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	response, err := h.authService.CurrentSession(c.Request.Context(), ac)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// IssueToken handles POST /api/auth/token
// @Summary Issue a token for the CLI
// @Description Starts a separate session and returns its token for use as a Bearer token
// @Tags Authentication
// @Produce json
// @Security SessionAuth
// @Success 201 {object} dto.TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	response, err := h.authService.IssueToken(c.Request.Context(), ac, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int, path string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, path, "", h.secureCookies, true)
}

func (h *AuthHandler) clear(c *gin.Context, name, path string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, path, "", h.secureCookies, true)
}

// clearCookie expires a root-path cookie
func clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", false, true)
}

// requireCaller returns the authenticated caller or responds 401
func requireCaller(c *gin.Context) (*auth.Context, bool) {
	ac, ok := middleware.GetAuth(c)
	if !ok {
		respondError(c, apperrors.NewUnauthenticatedError("Unauthorized"))
		return nil, false
	}
	return ac, true
}

func redirectWithError(c *gin.Context, target, message string) {
	c.Redirect(http.StatusFound, target+"?error="+url.QueryEscape(message))
}

func messageOf(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Message
	}
	return "Sign-in failed"
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
