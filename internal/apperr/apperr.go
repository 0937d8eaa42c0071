// Package apperr defines the error kinds surfaced by game, quiz and session
// operations. Callers wrap these with context and test with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: unknown session id, country code or country name.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState: action on a completed session, or on a hint/lifeline
	// that is already used or otherwise unavailable.
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientData: the catalog is too small for the request.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidInput: malformed request values (unknown mode, empty guess).
	ErrInvalidInput = errors.New("invalid input")
)

// NotFound wraps ErrNotFound with a formatted message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// InvalidState wraps ErrInvalidState with a formatted message.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidState)
}

// InsufficientData wraps ErrInsufficientData with a formatted message.
func InsufficientData(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInsufficientData)
}

// InvalidInput wraps ErrInvalidInput with a formatted message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}
