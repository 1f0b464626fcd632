package account

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

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

const (
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeUnknownProvider    = "UNKNOWN_PROVIDER"
	CodeInvalidAccountData = "INVALID_ACCOUNT_DATA"
)

var (
	// ErrNotFound matches every account-not-found error via errors.Is
	ErrNotFound = &DomainError{Code: CodeAccountNotFound}
	// ErrProvider matches every unknown-provider error via errors.Is
	ErrProvider = &DomainError{Code: CodeUnknownProvider}
)

func ErrAccountNotFound(userID string, provider ProviderID) *DomainError {
	return &DomainError{
		Code:    CodeAccountNotFound,
		Message: fmt.Sprintf("no %s account for user %s", provider, userID),
	}
}

func ErrUnknownProvider(provider string) *DomainError {
	return &DomainError{
		Code:    CodeUnknownProvider,
		Message: fmt.Sprintf("unknown provider %q", provider),
	}
}

func ErrInvalidAccountData(field string, err error) *DomainError {
	return &DomainError{
		Code:    CodeInvalidAccountData,
		Message: fmt.Sprintf("invalid %s", field),
		Err:     err,
	}
}
