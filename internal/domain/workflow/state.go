package workflow

// State is a phase of the form-fill workflow
type State string

const (
	StateStaff     State = "STAFF"
	StateClient    State = "CLIENT"
	StateSignature State = "SIGNATURE"
	StateSubmitted State = "SUBMITTED"
)

var validStates = map[State]bool{
	StateStaff:     true,
	StateClient:    true,
	StateSignature: true,
	StateSubmitted: true,
}

var terminalStates = map[State]bool{
	StateSubmitted: true,
}

// IsTerminal returns true once the form has been filed and no further moves are allowed
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known fill phase
func (s State) IsValid() bool {
	return validStates[s]
}
