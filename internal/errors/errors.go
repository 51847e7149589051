package errors

import (
	"errors"
	"fmt"
)

// Common error types for the truth service
var (
	// Authorization errors. Deliberately coarse: callers never learn whether a
	// user exists, a secret was wrong, or a session expired.
	ErrAccessDenied = errors.New("access denied")

	// Lookup errors. Also returned when an item exists but the caller's
	// clearance is too low.
	ErrNotFound = errors.New("not found")

	// Validation errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidPattern = errors.New("invalid pattern")

	// Storage errors
	ErrCorruptState = errors.New("corrupt persisted state")

	// External dependency errors
	ErrUnavailable = errors.New("service unavailable")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
