package services

import (
	"errors"
	"fmt"
)

// The four error kinds produced by the service layer. Controllers map them to
// HTTP status codes: NotFound -> 404, Forbidden -> 403, Invalid -> 400,
// Conflict -> 409. Anything else is a 500.

// NotFoundError reports that a referenced resource does not exist
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found with id: %v", e.Resource, e.ID)
}

// ForbiddenError reports an ownership or permission violation
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// InvalidError reports missing or malformed input
type InvalidError struct {
	Message string
}

func (e *InvalidError) Error() string {
	return e.Message
}

// ConflictError reports a duplicate-resource condition
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsForbidden reports whether err is a ForbiddenError
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

// IsInvalid reports whether err is an InvalidError
func IsInvalid(err error) bool {
	var target *InvalidError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
