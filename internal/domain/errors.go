package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("input does not match conversation phase")
	ErrEmptyDescription  = errors.New("description cannot be empty")
	ErrInvalidPriority   = errors.New("priority must be one of High, Medium, Low")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrInvalidVisibility = errors.New("tasks mode must be shared or personal")
	ErrUnknownDriver     = errors.New("unknown store driver")
	ErrConfigExists      = errors.New("config file already exists")
	ErrMissingToken      = errors.New("telegram bot token is not set")
	ErrConfigNil         = errors.New("config is nil")
)

// StorageError reports that the underlying persistence operation failed.
// Callers present it as a retryable failure.
type StorageError struct {
	Err error
	Op  string
}

// Error implements error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for the given operation.
// A nil err yields nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err carries a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
