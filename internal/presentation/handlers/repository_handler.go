package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"git-away/internal/application/dto"
	"git-away/internal/application/service"
	apperrors "git-away/internal/errors"
)

// RepositoryHandler handles repository-related HTTP requests
type RepositoryHandler struct {
	repositoryService *service.RepositoryService
}

// NewRepositoryHandler creates a new repository handler
func NewRepositoryHandler(repositoryService *service.RepositoryService) *RepositoryHandler {
	return &RepositoryHandler{
		repositoryService: repositoryService,
	}
}

// ListRepositories handles GET /api/github/repos
// @Summary List GitHub repositories
// @Description Returns one page of the caller's GitHub repositories, most recently updated first. hasMore is true when the page is full.
// @Tags Repositories
// @Produce json
// @Security SessionAuth
// @Param page query int false "Page number" default(1) minimum(1)
// @Param per_page query int false "Items per page" default(30) minimum(1) maximum(100)
// @Success 200 {object} dto.RepositoryPageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /github/repos [get]
func (h *RepositoryHandler) ListRepositories(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", service.DefaultPerPage)

	response, err := h.repositoryService.ListRepositories(c.Request.Context(), ac.UserID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetLastCommit handles GET /api/github/repos/:owner/:repo/last-commit
// @Summary Get the last commit of a repository
// @Description Returns the newest commit on a branch, or null when the repository has none or it could not be fetched
// @Tags Repositories
// @Produce json
// @Security SessionAuth
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param branch query string false "Branch" default(main)
// @Success 200 {object} dto.LastCommitResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /github/repos/{owner}/{repo}/last-commit [get]
func (h *RepositoryHandler) GetLastCommit(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	response, err := h.repositoryService.GetLastCommit(
		c.Request.Context(),
		ac.UserID,
		c.Param("owner"),
		c.Param("repo"),
		c.Query("branch"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateWebhook handles POST /api/github/repos/:owner/:repo/webhooks
// @Summary Register a push webhook
// @Description Registers a push webhook on a repository. The body may override the configured target.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param request body dto.CreateWebhookRequest false "Webhook target"
// @Success 201 {object} dto.WebhookResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /github/repos/{owner}/{repo}/webhooks [post]
func (h *RepositoryHandler) CreateWebhook(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.CreateWebhookRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
			return
		}
	}

	response, err := h.repositoryService.CreateWebhook(c.Request.Context(), ac.UserID, c.Param("owner"), c.Param("repo"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// DeleteWebhook handles DELETE /api/github/repos/:owner/:repo/webhooks/:id
// @Summary Delete a webhook
// @Description Removes a webhook. Deleting a webhook that no longer exists succeeds.
// @Tags Webhooks
// @Security SessionAuth
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param id path int true "Webhook ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /github/repos/{owner}/{repo}/webhooks/{id} [delete]
func (h *RepositoryHandler) DeleteWebhook(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	hookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid webhook ID"))
		return
	}

	if err := h.repositoryService.DeleteWebhook(c.Request.Context(), ac.UserID, c.Param("owner"), c.Param("repo"), hookID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// queryInt reads a positive integer query parameter
func queryInt(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
