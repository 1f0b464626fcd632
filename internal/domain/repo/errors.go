package repo

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

const CodeInvalidRepositoryData = "INVALID_REPOSITORY_DATA"

// ErrInvalid matches every invalid repository input via errors.Is
var ErrInvalid = &DomainError{Code: CodeInvalidRepositoryData}

func ErrInvalidRepositoryData(field string, err error) *DomainError {
	return &DomainError{
		Code:    CodeInvalidRepositoryData,
		Message: fmt.Sprintf("invalid %s", field),
		Err:     err,
	}
}
