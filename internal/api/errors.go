package api

import (
	"errors"
	"fmt"
)

// ValidationError reports input rejected before any state changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError reports an operation that does not apply to the current
// state of a resource, such as deciding a request that is no longer pending.
type ConflictError struct {
	Resource string
	ID       uint
	Message  string
}

func (e *ConflictError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Message)
	}
	return fmt.Sprintf("%s %d conflict: %s", e.Resource, e.ID, e.Message)
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
