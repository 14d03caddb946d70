package workflow

import "context"

// FillPolicy decides the guarded moves of a form-fill workflow
type FillPolicy struct {
	// RequiresSignature routes the staff phase into the client phase instead of direct submission
	RequiresSignature bool

	// SignatureCaptured reports whether the client signature has been taken
	SignatureCaptured func() bool
}

// NewFillMachine builds the STAFF -> CLIENT -> SIGNATURE workflow.
//
// Forms without a signature requirement submit straight from STAFF. Backward
// moves never lose data because field values live outside the machine.
func NewFillMachine(policy FillPolicy, initial State) StateMachine {
	requires := func(context.Context) bool { return policy.RequiresSignature }
	direct := func(context.Context) bool { return !policy.RequiresSignature }
	signed := func(context.Context) bool {
		return policy.SignatureCaptured != nil && policy.SignatureCaptured()
	}

	b := NewBuilder()
	b.Configure(StateStaff).
		PermitIf(TriggerNext, StateClient, requires).
		PermitIf(TriggerSubmit, StateSubmitted, direct)
	b.Configure(StateClient).
		Permit(TriggerNext, StateSignature).
		Permit(TriggerBack, StateStaff)
	b.Configure(StateSignature).
		Permit(TriggerBack, StateClient).
		PermitIf(TriggerSubmit, StateSubmitted, signed)
	b.Configure(StateSubmitted)

	return b.Build(initial)
}
