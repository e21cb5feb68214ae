package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy of the assessment flow. Every predictable failure wraps
// one of these sentinels so callers can classify with errors.Is and the
// HTTP layer can translate to a status code.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnmetRequirement  = errors.New("unmet requirement")
	ErrValidation        = errors.New("validation error")
	ErrPersistence       = errors.New("persistence failure")
	ErrConflict          = errors.New("concurrent update conflict")
)

// NotFoundf wraps ErrNotFound with a formatted reason.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidTransitionf wraps ErrInvalidTransition with a formatted reason.
func InvalidTransitionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

// UnmetRequirementf wraps ErrUnmetRequirement with a formatted reason.
func UnmetRequirementf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnmetRequirement, fmt.Sprintf(format, args...))
}

// Validationf wraps ErrValidation with a formatted reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
