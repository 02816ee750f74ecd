// Package errors defines the business-rule error taxonomy shared by
// services and handlers. Every rejected operation maps to a DomainError
// so callers can tell exactly which rule blocked it.
package errors

import "fmt"

// DomainError is a business-rule failure with a stable machine code.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// WithDetail returns a copy of the error with extra context appended to
// the message. The code and status are preserved so handlers and tests
// can still match on them.
func (e *DomainError) WithDetail(format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
		Status:  e.Status,
	}
}

// Is lets errors.Is match a detailed copy against its sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewValidationError builds a field-level validation failure.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: fmt.Sprintf("%s: %s", field, message),
		Status:  400,
	}
}

var ErrValidationFailed = &DomainError{
	Code:    "VALIDATION_FAILED",
	Message: "request validation failed",
	Status:  400,
}
