package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrCode identifies one variant of the closed application error set
type ErrCode string

const (
	// ErrCodeUnauthenticated means there is no valid session
	ErrCodeUnauthenticated ErrCode = "UNAUTHENTICATED"
	// ErrCodeNotConnected means the user has no usable credential for a provider
	ErrCodeNotConnected ErrCode = "NOT_CONNECTED"
	// ErrCodeAuthExpired means the provider rejected the stored token
	ErrCodeAuthExpired ErrCode = "AUTH_EXPIRED"
	// ErrCodeUpstream is any other provider failure
	ErrCodeUpstream ErrCode = "UPSTREAM_ERROR"
	// ErrCodeEnrichmentMiss means no commit information is available for a repository
	ErrCodeEnrichmentMiss ErrCode = "ENRICHMENT_MISS"

	ErrCodeBadRequest       ErrCode = "BAD_REQUEST"
	ErrCodeForbidden        ErrCode = "FORBIDDEN"
	ErrCodeNotFound         ErrCode = "NOT_FOUND"
	ErrCodeValidationFailed ErrCode = "VALIDATION_FAILED"
	ErrCodeInternal         ErrCode = "INTERNAL_ERROR"
)

// Reasons refine a code without widening the set of codes
const (
	ReasonTokenMissing   = "token_missing"
	ReasonNoCredential   = "no_credential"
	ReasonRateLimited    = "rate_limited"
	ReasonEmptyRepo      = "empty_repository"
	ReasonSessionExpired = "session_expired"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Reason  string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError by code, and by reason when the target sets one
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Reason != "" && t.Reason != e.Reason {
		return false
	}
	return t.Code == e.Code
}

// NewUnauthenticatedError creates an error for a missing or invalid session
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthenticated, Message: message}
}

// NewNotConnectedError creates an error for a provider without a stored credential
func NewNotConnectedError(provider string) *AppError {
	return &AppError{
		Code:    ErrCodeNotConnected,
		Message: fmt.Sprintf("%s not connected", displayName(provider)),
		Reason:  ReasonNoCredential,
	}
}

// NewTokenMissingError creates an error for a credential without an access token
func NewTokenMissingError(provider string) *AppError {
	return &AppError{
		Code:    ErrCodeNotConnected,
		Message: fmt.Sprintf("%s access token not found", displayName(provider)),
		Reason:  ReasonTokenMissing,
	}
}

// NewAuthExpiredError creates an error for a token the provider rejected
func NewAuthExpiredError(provider string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeAuthExpired,
		Message: fmt.Sprintf("%s authentication expired. Please reconnect.", displayName(provider)),
		Err:     err,
	}
}

// NewUpstreamError creates an error carrying the provider's message
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeUpstream, Message: message, Err: err}
}

// NewEnrichmentMissError records why a repository has no commit information
func NewEnrichmentMissError(reason string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeEnrichmentMiss,
		Message: "no commit information available",
		Reason:  reason,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: ErrCodeBadRequest, Message: message}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message, Err: err}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Err: err}
}

// NewValidationFailedError creates an error for input the provider refused
func NewValidationFailedError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeValidationFailed, Message: message, Err: err}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Err: err}
}

// CodeOf returns the code of the first AppError in err's chain, or ErrCodeInternal
func CodeOf(err error) ErrCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code
func Is(err error, code ErrCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// HasReason reports whether err carries an AppError with the given reason
func HasReason(err error, reason string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Reason == reason
}

// IsUnauthenticated checks if the error is an unauthenticated error
func IsUnauthenticated(err error) bool {
	return Is(err, ErrCodeUnauthenticated)
}

// IsNotConnected checks if the error is a not connected error
func IsNotConnected(err error) bool {
	return Is(err, ErrCodeNotConnected)
}

// IsAuthExpired checks if the error is an auth expired error
func IsAuthExpired(err error) bool {
	return Is(err, ErrCodeAuthExpired)
}

func displayName(provider string) string {
	switch provider {
	case "github":
		return "GitHub"
	case "gitlab":
		return "GitLab"
	default:
		return provider
	}
}
