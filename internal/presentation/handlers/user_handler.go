package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"git-away/internal/application/service"
	"git-away/internal/middleware"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetCurrentUser handles GET /api/me
// @Summary Get current user information
// @Description Returns information about the currently authenticated user
// @Tags Users
// @Produce json
// @Security SessionAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /me [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	response, err := h.userService.GetUser(c.Request.Context(), ac.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteCurrentUser handles DELETE /api/me
// @Summary Delete the current user
// @Description Deletes the user with every stored credential and session
// @Tags Users
// @Security SessionAuth
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Router /me [delete]
func (h *UserHandler) DeleteCurrentUser(c *gin.Context) {
	ac, ok := requireCaller(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), ac.UserID); err != nil {
		respondError(c, err)
		return
	}

	clearCookie(c, middleware.SessionCookie)
	c.Status(http.StatusNoContent)
}
