package services

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed input. Fields names the offending
// question ids or field paths.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

func newValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// NotFoundError reports a missing or soft-deleted entity.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StateConflictError reports an action that is not permitted from the
// entity's current approval state, or a lost concurrent update.
type StateConflictError struct {
	Resource string
	ID       string
	Current  string
	Action   string
	Reason   string
	Err      error // optional cause
}

func (e *StateConflictError) Unwrap() error { return e.Err }

func (e *StateConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s %s %s: %s", e.Action, e.Resource, e.ID, e.Reason)
	}
	return fmt.Sprintf("cannot %s %s %s in state %q", e.Action, e.Resource, e.ID, e.Current)
}

// DependencyError wraps a failure of a collaborator (store, directory).
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

func dependencyError(dependency string, err error) error {
	if err == nil {
		return nil
	}
	// domain errors from a store pass through untouched
	if IsValidation(err) || IsNotFound(err) || IsStateConflict(err) || IsDependency(err) {
		return err
	}
	return &DependencyError{Dependency: dependency, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsStateConflict(err error) bool {
	var target *StateConflictError
	return errors.As(err, &target)
}

func IsDependency(err error) bool {
	var target *DependencyError
	return errors.As(err, &target)
}
