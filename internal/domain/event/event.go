package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload keys shared by publishers and subscribers
const (
	KeyJobID            = "job_id"
	KeyFormID           = "form_id"
	KeySubmittedBy      = "submitted_by"
	KeySubmissionNumber = "submission_number"
	KeyActor            = "actor"
	KeyCount            = "count"
)

// Event represents a domain event
type Event struct {
	ID            string         `json:"id"`
	Type          Type           `json:"type"`
	SubjectID     string         `json:"subject_id"`
	Payload       map[string]any `json:"payload"`
	Timestamp     time.Time      `json:"timestamp"`
	CorrelationID string         `json:"correlation_id"`
}

// NewEvent creates a new domain event about the given subject (a form or submission id)
func NewEvent(eventType Type, subjectID string, payload map[string]any) *Event {
	if payload == nil {
		payload = map[string]any{}
	}
	id := uuid.NewString()
	return &Event{
		ID:            id,
		Type:          eventType,
		SubjectID:     subjectID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: id,
	}
}

// WithCorrelation returns a copy linked to an existing correlation chain, such as an HTTP request id
func (e *Event) WithCorrelation(correlationID string) *Event {
	c := *e
	if correlationID != "" {
		c.CorrelationID = correlationID
	}
	return &c
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if s, ok := e.Payload[key].(string); ok {
		return s
	}
	return ""
}

// GetPayloadInt retrieves an integer value from the payload
func (e *Event) GetPayloadInt(key string) int {
	switch v := e.Payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
