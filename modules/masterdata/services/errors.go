package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every *ServiceError carries exactly one as its Kind; a wrapped
// Cause may add another to the errors.Is chain.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateCode = errors.New("duplicate code")
	ErrScopeMismatch = errors.New("scope mismatch")
	ErrValidation    = errors.New("validation failed")
	ErrInternal      = errors.New("internal error")
)

const (
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeDuplicateCode = "DUPLICATE_CODE"
	CodeScopeMismatch = "SCOPE_MISMATCH"
	CodeInternal      = "INTERNAL"
)

type ServiceError struct {
	Status  int
	Code    string
	Message string
	Kind    error
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

func newServiceError(status int, code, message string, kind, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Kind: kind, Cause: cause}
}

func notFound(message string, cause error) *ServiceError {
	return newServiceError(http.StatusNotFound, CodeNotFound, message, ErrNotFound, cause)
}

func duplicateCode(message string, cause error) *ServiceError {
	return newServiceError(http.StatusBadRequest, CodeDuplicateCode, message, ErrDuplicateCode, cause)
}

func scopeMismatch(message string) *ServiceError {
	return newServiceError(http.StatusBadRequest, CodeScopeMismatch, message, ErrScopeMismatch, nil)
}

func internal(cause error) *ServiceError {
	return newServiceError(http.StatusInternalServerError, CodeInternal, "Internal server error", ErrInternal, cause)
}

// NewValidationError reports bad input detected before any storage access.
func NewValidationError(message string) *ServiceError {
	return newServiceError(http.StatusBadRequest, CodeValidation, message, ErrValidation, nil)
}

// kindLabel names the Kind of the outermost *ServiceError in err.
func kindLabel(err error) string {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		return "internal"
	}
	switch svcErr.Kind {
	case ErrValidation:
		return "validation"
	case ErrDuplicateCode:
		return "duplicate_code"
	case ErrScopeMismatch:
		return "scope_mismatch"
	case ErrNotFound:
		return "not_found"
	default:
		return "internal"
	}
}
