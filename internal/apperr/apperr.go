package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is a generic sentinel for missing resources.
var ErrNotFound = errors.New("not found")

// ValidationError marks a request that failed input validation. It always
// maps to a 4xx response and is raised before any side effect occurs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
