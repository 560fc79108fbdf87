package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates the operation is not legal for the current status of a voucher.
var ErrInvalidState = errors.New("invalid state")

// ErrUnbalancedEntries indicates debits and credits differ, or an entry count/amount rule was broken.
var ErrUnbalancedEntries = errors.New("unbalanced entries")

// ErrInvalidTemplateInput indicates a missing template parameter or an unknown kind/sub-kind.
var ErrInvalidTemplateInput = errors.New("invalid template input")

// ErrSerializationConflict is a transient, storage-detected concurrency conflict.
// It is the only error callers may retry.
var ErrSerializationConflict = errors.New("serialization conflict")

// ErrInternal is used for unexpected storage or infrastructure failures.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code and a message alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsRetryable reports whether err may succeed if the whole unit of work is attempted again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSerializationConflict)
}
