package event

import (
	"testing"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{"submission created", TypeSubmissionCreated, true},
		{"submissions cleared", TypeSubmissionsClear, true},
		{"form deleted", TypeFormDeleted, true},
		{"unknown", Type("submission.archived"), false},
		{"empty", Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	evt := NewEvent(TypeSubmissionCreated, "submission-1", map[string]any{
		KeyJobID:            "J1",
		KeySubmissionNumber: 2,
	})

	if evt.ID == "" {
		t.Error("expected generated ID")
	}
	if evt.CorrelationID != evt.ID {
		t.Error("new event should start its own correlation chain")
	}
	if evt.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}
	if got := evt.GetPayloadString(KeyJobID); got != "J1" {
		t.Errorf("GetPayloadString() = %q, want J1", got)
	}
	if got := evt.GetPayloadInt(KeySubmissionNumber); got != 2 {
		t.Errorf("GetPayloadInt() = %d, want 2", got)
	}
	if got := evt.GetPayloadString("missing"); got != "" {
		t.Errorf("GetPayloadString(missing) = %q, want empty", got)
	}
}

func TestNewEvent_NilPayload(t *testing.T) {
	evt := NewEvent(TypeSubmissionsClear, "", nil)
	if evt.Payload == nil {
		t.Fatal("payload should never be nil")
	}
}

func TestEvent_WithCorrelation(t *testing.T) {
	evt := NewEvent(TypeFormCreated, "form-9", nil)
	linked := evt.WithCorrelation("req-123")

	if linked.CorrelationID != "req-123" {
		t.Errorf("CorrelationID = %q, want req-123", linked.CorrelationID)
	}
	if evt.CorrelationID == "req-123" {
		t.Error("original event must not be modified")
	}
	if linked.ID != evt.ID {
		t.Error("correlated copy keeps the event id")
	}
	if same := evt.WithCorrelation(""); same.CorrelationID != evt.CorrelationID {
		t.Error("empty correlation id keeps the existing chain")
	}
}
