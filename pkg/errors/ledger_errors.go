package custom_error

import (
	"errors"
	"fmt"
)

// NotFoundError reports an unknown or soft-deleted resource.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// InvalidTransitionError reports a log entry whose target does not fit its status.
type InvalidTransitionError struct {
	Status string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s entry: %s", e.Status, e.Reason)
}

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

func NewNotFound(resource string, id int) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewInvalidTransition(status, reason string) error {
	return &InvalidTransitionError{Status: status, Reason: reason}
}

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
