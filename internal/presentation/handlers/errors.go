package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "git-away/internal/errors"
)

// ErrorResponse is the body of every failed API request
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

// statusOf maps an error code to its HTTP status. AUTH_EXPIRED stays a 500
// and is told apart by its code.
func statusOf(code apperrors.ErrCode) int {
	switch code {
	case apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeNotConnected, apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func asAppError(err error) (*apperrors.AppError, bool) {
	var appErr *apperrors.AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// respondError converts err into a JSON error response
func respondError(c *gin.Context, err error) {
	appErr, ok := asAppError(err)
	if !ok {
		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  string(apperrors.ErrCodeInternal),
		})
		return
	}

	status := statusOf(appErr.Code)
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	_ = c.Error(err)

	c.JSON(status, ErrorResponse{
		Error:  appErr.Message,
		Code:   string(appErr.Code),
		Reason: appErr.Reason,
	})
}
