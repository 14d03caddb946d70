package workflow

import (
	"context"
	"fmt"
	"sort"
)

// GuardFunc is a function that evaluates whether a transition should be allowed
type GuardFunc func(ctx context.Context) bool

// StateMachineBuilder builds a configured state machine
type StateMachineBuilder interface {
	// Configure returns a state configuration for the given state
	Configure(state State) StateConfiguration

	// Build creates a new state machine instance with the given initial state
	Build(initialState State) StateMachine
}

// StateConfiguration configures transitions for a specific state
type StateConfiguration interface {
	// Permit allows a trigger to transition to the target state
	Permit(trigger Trigger, toState State) StateConfiguration

	// PermitIf allows a trigger to transition to the target state if the guard condition passes
	PermitIf(trigger Trigger, toState State, guard GuardFunc) StateConfiguration
}

type transition struct {
	toState State
	guard   GuardFunc
}

func (t transition) allowed(ctx context.Context) bool {
	return t.guard == nil || t.guard(ctx)
}

type transitionTable map[State]map[Trigger][]transition

type stateConfig struct {
	table     transitionTable
	fromState State
}

type stateMachineBuilder struct {
	table transitionTable
}

type stateMachine struct {
	currentState State
	table        transitionTable
}

// NewBuilder creates a new state machine builder
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{table: make(transitionTable)}
}

// Configure returns a state configuration for the given state
func (b *stateMachineBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}
	if _, exists := b.table[state]; !exists {
		b.table[state] = make(map[Trigger][]transition)
	}
	return &stateConfig{table: b.table, fromState: state}
}

// Build creates a new state machine instance with the given initial state.
// The transition table is copied so later Configure calls do not leak into built machines.
func (b *stateMachineBuilder) Build(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	table := make(transitionTable, len(b.table))
	for state, triggers := range b.table {
		copied := make(map[Trigger][]transition, len(triggers))
		for trigger, transitions := range triggers {
			copied[trigger] = append([]transition{}, transitions...)
		}
		table[state] = copied
	}

	return &stateMachine{currentState: initialState, table: table}
}

// Permit allows a trigger to transition to the target state
func (c *stateConfig) Permit(trigger Trigger, toState State) StateConfiguration {
	return c.PermitIf(trigger, toState, nil)
}

// PermitIf allows a trigger to transition to the target state if the guard condition passes
func (c *stateConfig) PermitIf(trigger Trigger, toState State, guard GuardFunc) StateConfiguration {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}
	c.table[c.fromState][trigger] = append(c.table[c.fromState][trigger], transition{
		toState: toState,
		guard:   guard,
	})
	return c
}

// State returns the current state
func (m *stateMachine) State() State {
	return m.currentState
}

// CanFire reports whether the trigger would succeed from the current state
func (m *stateMachine) CanFire(ctx context.Context, trigger Trigger) bool {
	for _, t := range m.table[m.currentState][trigger] {
		if t.allowed(ctx) {
			return true
		}
	}
	return false
}

// Fire attempts to execute the trigger. The first transition whose guard passes wins.
func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	transitions := m.table[m.currentState][trigger]
	if len(transitions) == 0 {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}

	for _, t := range transitions {
		if t.allowed(ctx) {
			m.currentState = t.toState
			return nil
		}
	}

	return fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, trigger, m.currentState)
}

// PermittedTriggers returns the triggers whose guards currently pass, sorted by name
func (m *stateMachine) PermittedTriggers(ctx context.Context) []Trigger {
	triggers := []Trigger{}
	for trigger := range m.table[m.currentState] {
		if m.CanFire(ctx, trigger) {
			triggers = append(triggers, trigger)
		}
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}
