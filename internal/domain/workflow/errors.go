package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when the trigger is not configured for the current phase
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrGuardFailed is returned when a guard condition fails
	ErrGuardFailed = errors.New("guard condition failed")
)
