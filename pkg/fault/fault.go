package fault

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("resource not found")

type ErrorType int

const (
	ErrValidation ErrorType = iota
	ErrInternal
)

// Fault is the domain error carried out of the service layer. Validation
// faults hold a message meant for the end user; internal faults wrap the
// underlying cause.
type Fault struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Fault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.typeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.typeString(), e.Message)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *Fault) Unwrap() error {
	return e.Err
}

func (e *Fault) typeString() string {
	switch e.Type {
	case ErrValidation:
		return "ValidationError"
	case ErrInternal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// NewValidationError creates an error for input the caller must fix.
func NewValidationError(format string, args ...any) error {
	return &Fault{
		Type:    ErrValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(msg string, err error) error {
	return &Fault{
		Type:    ErrInternal,
		Message: msg,
		Err:     err,
	}
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Type == ErrValidation
	}
	return false
}

// Message returns the user-facing message of a Fault, or the plain error
// text for anything else.
func Message(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
