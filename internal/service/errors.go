package service

import (
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	// ErrValidation marks malformed or out-of-range input, detected before any storage access.
	ErrValidation = errors.New("validation failed")

	ErrUserAlreadyExists = errors.New("username is already taken")
	// ErrAuthenticationFailed is returned for both unknown users and wrong passwords.
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")

	ErrExerciseNotFound = errors.New("exercise not found")
	ErrWorkoutNotFound  = errors.New("workout not found")

	ErrExportDisabled = errors.New("workout export is not configured")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
