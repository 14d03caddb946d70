package workflow

import "context"

// StateMachine tracks the current fill phase and validates moves between phases
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire reports whether the trigger would succeed from the current state
	CanFire(ctx context.Context, trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns the triggers whose guards currently pass, sorted by name
	PermittedTriggers(ctx context.Context) []Trigger
}
