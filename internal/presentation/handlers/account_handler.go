package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"git-away/internal/application/service"
)

// AccountHandler handles provider credential requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ListConnections handles GET /api/accounts
// @Summary List provider connections
// @Description Returns one row per supported provider with token prefixes, never full tokens
// @Tags Accounts
// @Produce json
// @Security SessionAuth
// @Success 200 {object} dto.ConnectionListResponse
// @Failure 401 {object} ErrorResponse
// @Router /accounts [get]
func (h *AccountHandler) ListConnections(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	response, err := h.accountService.ListConnections(c.Request.Context(), ac.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Disconnect handles DELETE /api/accounts/:provider
// @Summary Disconnect a provider
// @Tags Accounts
// @Security SessionAuth
// @Param provider path string true "Provider" Enums(github, gitlab)
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{provider} [delete]
func (h *AccountHandler) Disconnect(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	if err := h.accountService.Disconnect(c.Request.Context(), ac.UserID, c.Param("provider")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// TokenScope handles GET /api/debug/token-scope
// @Summary Inspect the GitHub token scope
// @Description Diagnostic view of the stored GitHub credential. Only an 8 character token prefix is returned.
// @Tags Accounts
// @Produce json
// @Security SessionAuth
// @Success 200 {object} dto.TokenScopeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /debug/token-scope [get]
func (h *AccountHandler) TokenScope(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	response, err := h.accountService.TokenScope(c.Request.Context(), ac.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
