package workflow

// Trigger is a user action that moves the fill workflow between phases
type Trigger string

const (
	TriggerNext   Trigger = "NEXT"
	TriggerBack   Trigger = "BACK"
	TriggerSubmit Trigger = "SUBMIT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
