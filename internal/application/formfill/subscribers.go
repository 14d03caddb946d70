package formfill

import (
	"context"
	"fmt"

	"github.com/garyjia/claim-forms/internal/application/dispatcher"
	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/domain/event"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// RegisterSubscribers wires the fill-side reactions to submission events:
// a filed form clears its draft inline, and every submission change leaves an
// audit line from a background handler.
func RegisterSubscribers(d dispatcher.Dispatcher, drafts port.DraftStore, logger service.Logger) {
	if logger == nil {
		logger = nopLogger{}
	}

	if drafts != nil {
		d.SubscribeNamed(event.TypeSubmissionCreated, "clear-draft", func(ctx context.Context, evt *event.Event) error {
			key := DraftKey(evt.GetPayloadString(event.KeyJobID), evt.GetPayloadString(event.KeyFormID))
			if err := drafts.Delete(ctx, key); err != nil {
				return fmt.Errorf("clear draft %s: %w", key, err)
			}
			return nil
		})
	}

	audit := func(ctx context.Context, evt *event.Event) error {
		logger.Info("Submission audit",
			"event_id", evt.ID,
			"event_type", evt.Type,
			"submission_id", evt.SubjectID,
			"job_id", evt.GetPayloadString(event.KeyJobID),
			"form_id", evt.GetPayloadString(event.KeyFormID),
			"submitted_by", evt.GetPayloadString(event.KeySubmittedBy),
			"actor", evt.GetPayloadString(event.KeyActor),
			"at", evt.Timestamp,
		)
		return nil
	}
	for _, t := range []event.Type{
		event.TypeSubmissionCreated,
		event.TypeSubmissionUpdated,
		event.TypeSubmissionDeleted,
		event.TypeSubmissionsClear,
	} {
		d.SubscribeAsync(t, "audit-log", audit)
	}
}
