// engine/errors.go - error taxonomy shared by both store adapters
package engine

import (
	"errors"
	"fmt"
)

// The four recoverable error classes. Handlers map them to HTTP statuses;
// everything else is treated as a storage failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrAlreadyCheckedIn = fmt.Errorf("%w: already checked in today", ErrConflict)
	ErrCourseLocked     = fmt.Errorf("%w: course is locked", ErrConflict)
	ErrUnknownCourse    = fmt.Errorf("%w: unknown course", ErrNotFound)
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
