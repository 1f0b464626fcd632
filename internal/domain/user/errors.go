package user

import "fmt"

// Domain errors

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match any DomainError with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

const CodeUserNotFound = "USER_NOT_FOUND"

// ErrNotFound matches every user-not-found error via errors.Is
var ErrNotFound = &DomainError{Code: CodeUserNotFound}

// Predefined domain errors

func ErrUserNotFound(id string) *DomainError {
	return &DomainError{
		Code:    CodeUserNotFound,
		Message: fmt.Sprintf("user %s not found", id),
	}
}

func ErrInvalidUserData(field string, err error) *DomainError {
	return &DomainError{
		Code:    "INVALID_USER_DATA",
		Message: fmt.Sprintf("invalid %s", field),
		Err:     err,
	}
}
