package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced client or document is absent.
	ErrNotFound = errors.New("resource not found")
	// ErrLockTimeout is returned when the per-document summary lock cannot
	// be acquired within the bounded wait.
	ErrLockTimeout = errors.New("summary lock acquisition timed out")
)

// ValidationError marks caller input the service refuses to process.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
