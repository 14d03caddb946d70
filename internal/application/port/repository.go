package port

import (
	"context"
	"errors"

	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// ErrMirrorDisabled is returned by mirrors that intentionally store nothing
var ErrMirrorDisabled = errors.New("durable submission storage is disabled")

// SubmissionMirror is the durable copy of the submission store. Writes are
// best-effort: the in-memory store stays authoritative for the running process.
type SubmissionMirror interface {
	// Save upserts a submission by id
	Save(ctx context.Context, submission *entity.FormSubmission) error

	// Delete removes a submission by id
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every submission and returns how many were removed
	DeleteAll(ctx context.Context) (int64, error)

	// LoadAll returns every stored submission, newest first
	LoadAll(ctx context.Context) ([]*entity.FormSubmission, error)

	// Ping reports whether durable storage is reachable
	Ping(ctx context.Context) error
}

// DraftStore keeps in-progress field values keyed by job and form
type DraftStore interface {
	// Load returns the saved draft; ok is false when none exists
	Load(ctx context.Context, key string) (data entity.SubmissionData, ok bool, err error)

	// Save replaces the draft for key
	Save(ctx context.Context, key string, data entity.SubmissionData) error

	// Delete removes the draft for key
	Delete(ctx context.Context, key string) error
}
