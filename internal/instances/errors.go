package instances

import (
	"errors"
	"fmt"
)

// Store-level sentinels.
var (
	ErrNotFound  = errors.New("instances: not found")
	ErrDuplicate = errors.New("instances: duplicate name")
)

// ValidationError reports a field-level problem with the submitted input.
// Recoverable by resubmitting corrected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError reports that a name cannot be claimed because it is
// reserved or already taken. Distinct from ValidationError so callers can
// tell "fix your input" from "pick another name".
type ConflictError struct {
	Name   string
	Reason Reason
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("instance name %q is %s", e.Name, e.Reason)
}
