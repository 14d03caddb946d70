package event

// Type identifies the type of domain event
type Type string

const (
	TypeSubmissionCreated Type = "form_submission.created"
	TypeSubmissionUpdated Type = "form_submission.updated"
	TypeSubmissionDeleted Type = "form_submission.deleted"
	TypeSubmissionsClear  Type = "form_submission.cleared"
	TypeFormCreated       Type = "form.created"
	TypeFormUpdated       Type = "form.updated"
	TypeFormDeleted       Type = "form.deleted"
)

// Types returns every defined event type
func Types() []Type {
	return []Type{
		TypeSubmissionCreated,
		TypeSubmissionUpdated,
		TypeSubmissionDeleted,
		TypeSubmissionsClear,
		TypeFormCreated,
		TypeFormUpdated,
		TypeFormDeleted,
	}
}

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}
