package workflow

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateStaff, false},
		{StateClient, false},
		{StateSignature, false},
		{StateSubmitted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"staff", StateStaff, true},
		{"signature", StateSignature, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	builder.Build(State("INVALID"))
}

func TestBuilder_BuildCopiesTable(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateStaff).Permit(TriggerNext, StateClient)
	machine := builder.Build(StateStaff)

	builder.Configure(StateStaff).Permit(TriggerBack, StateSignature)

	if machine.CanFire(context.Background(), TriggerBack) {
		t.Error("built machine should not see transitions configured after Build()")
	}
}

func TestStateConfiguration_PermitIf_GuardFails(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateStaff).
		PermitIf(TriggerNext, StateClient, func(ctx context.Context) bool { return false })

	machine := builder.Build(StateStaff)

	err := machine.Fire(context.Background(), TriggerNext)
	if !errors.Is(err, ErrGuardFailed) {
		t.Fatalf("Fire() error = %v, want %v", err, ErrGuardFailed)
	}
	if machine.State() != StateStaff {
		t.Errorf("State should remain %v after failed Fire(), got %v", StateStaff, machine.State())
	}
}

func TestStateMachine_FireUnknownTrigger(t *testing.T) {
	machine := NewBuilder().Build(StateStaff)

	err := machine.Fire(context.Background(), TriggerBack)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
	}
}

func TestFillMachine_SignatureForm(t *testing.T) {
	ctx := context.Background()
	signed := false
	m := NewFillMachine(FillPolicy{
		RequiresSignature: true,
		SignatureCaptured: func() bool { return signed },
	}, StateStaff)

	if m.CanFire(ctx, TriggerSubmit) {
		t.Error("signature form must not submit from STAFF")
	}

	steps := []struct {
		trigger Trigger
		want    State
	}{
		{TriggerNext, StateClient},
		{TriggerBack, StateStaff},
		{TriggerNext, StateClient},
		{TriggerNext, StateSignature},
		{TriggerBack, StateClient},
		{TriggerNext, StateSignature},
	}
	for _, step := range steps {
		if err := m.Fire(ctx, step.trigger); err != nil {
			t.Fatalf("Fire(%s) failed: %v", step.trigger, err)
		}
		if m.State() != step.want {
			t.Fatalf("after %s state = %s, want %s", step.trigger, m.State(), step.want)
		}
	}

	if err := m.Fire(ctx, TriggerNext); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("NEXT from SIGNATURE error = %v, want %v", err, ErrInvalidTransition)
	}
	if err := m.Fire(ctx, TriggerSubmit); !errors.Is(err, ErrGuardFailed) {
		t.Errorf("SUBMIT before signing error = %v, want %v", err, ErrGuardFailed)
	}

	signed = true
	if err := m.Fire(ctx, TriggerSubmit); err != nil {
		t.Fatalf("SUBMIT after signing failed: %v", err)
	}
	if !m.State().IsTerminal() {
		t.Errorf("expected terminal state, got %s", m.State())
	}
}

func TestFillMachine_DirectSubmitForm(t *testing.T) {
	ctx := context.Background()
	m := NewFillMachine(FillPolicy{RequiresSignature: false}, StateStaff)

	if got := m.PermittedTriggers(ctx); !reflect.DeepEqual(got, []Trigger{TriggerSubmit}) {
		t.Errorf("PermittedTriggers() = %v, want [SUBMIT]", got)
	}
	if err := m.Fire(ctx, TriggerNext); !errors.Is(err, ErrGuardFailed) {
		t.Errorf("NEXT on direct form error = %v, want %v", err, ErrGuardFailed)
	}
	if err := m.Fire(ctx, TriggerSubmit); err != nil {
		t.Fatalf("SUBMIT failed: %v", err)
	}
	if m.State() != StateSubmitted {
		t.Errorf("state = %s, want %s", m.State(), StateSubmitted)
	}
	if got := m.PermittedTriggers(ctx); len(got) != 0 {
		t.Errorf("PermittedTriggers() after submit = %v, want none", got)
	}
}
