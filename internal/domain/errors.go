package domain

import (
	"errors"
	"fmt"
)

// Domain error kinds surfaced by the use cases. Handlers translate them into
// transport status codes with errors.Is.
var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	// ErrProjectNotFound covers both a missing project and a project the
	// caller may not see or modify.
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectKeyTaken = errors.New("project key already in use")

	// ErrTaskNotFound covers both a missing task and a task the caller may
	// not act on.
	ErrTaskNotFound = errors.New("task not found")

	ErrValidation = errors.New("validation failed")

	// ErrParentCycle is returned when a parent assignment would make a task
	// its own ancestor.
	ErrParentCycle = errors.New("parent task would create a cycle")
)

// Invalid returns an ErrValidation naming the offending field.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}
