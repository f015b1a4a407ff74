package custom_error

import (
	"errors"
	"fmt"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// UniqueViolationError reports a duplicate value, typically an asset number.
type UniqueViolationError struct {
	Resource string
	Code     string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s already exists (code: %s)", e.Resource, e.Code)
}

// ForeignKeyViolationError reports a reference to a missing person, site,
// organisation or location.
type ForeignKeyViolationError struct {
	Resource string
	Code     string
}

func (e *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("referenced record does not exist: %s (code: %s)", e.Resource, e.Code)
}

// WrapDBError turns a postgres error code into a typed error. Check
// violations become validation errors.
func WrapDBError(resource, code string) error {
	switch code {
	case pqUniqueViolation:
		return &UniqueViolationError{Resource: resource, Code: code}
	case pqForeignKeyViolation:
		return &ForeignKeyViolationError{Resource: resource, Code: code}
	case pqCheckViolation:
		return NewValidation(resource, "value rejected by database constraint")
	default:
		return fmt.Errorf("uncategorized database error with code %s: %s", code, resource)
	}
}

func IsUniqueViolation(err error) bool {
	var target *UniqueViolationError
	return errors.As(err, &target)
}

func IsForeignKeyViolation(err error) bool {
	var target *ForeignKeyViolationError
	return errors.As(err, &target)
}
