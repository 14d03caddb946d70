package mongo

import (
	"context"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// NoopMirror stands in when MongoDB is not configured. Writes fail with
// port.ErrMirrorDisabled so callers report them as not mirrored.
type NoopMirror struct{}

func (NoopMirror) Save(context.Context, *entity.FormSubmission) error { return port.ErrMirrorDisabled }
func (NoopMirror) Delete(context.Context, string) error               { return port.ErrMirrorDisabled }
func (NoopMirror) DeleteAll(context.Context) (int64, error)           { return 0, port.ErrMirrorDisabled }
func (NoopMirror) Ping(context.Context) error                         { return port.ErrMirrorDisabled }

// LoadAll returns no submissions
func (NoopMirror) LoadAll(context.Context) ([]*entity.FormSubmission, error) {
	return []*entity.FormSubmission{}, nil
}

var _ port.SubmissionMirror = NoopMirror{}
