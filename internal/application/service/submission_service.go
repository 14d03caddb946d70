package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/claim-forms/internal/application/dispatcher"
	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
	"github.com/garyjia/claim-forms/internal/domain/event"
)

// DefaultFormType is recorded on submissions whose form carries no type
const DefaultFormType = "standard"

// SubmitRequest is the input for filing a form
type SubmitRequest struct {
	JobID     string                `json:"jobId"`
	FormID    string                `json:"formId"`
	Data      entity.SubmissionData `json:"data"`
	Signature string                `json:"signature,omitempty"`
}

// SubmitResult reports both outcomes of a submission: the in-memory append,
// which always succeeds, and the durable mirror write, which may not.
type SubmitResult struct {
	Submission           *entity.FormSubmission
	Mirrored             bool
	MirrorError          error
	Message              string
	RemainingSubmissions int
}

// SubmissionFilter narrows List results conjunctively. Empty fields match everything.
type SubmissionFilter struct {
	JobID       string
	FormID      string
	SubmittedBy string
}

// Matches reports whether the submission satisfies every set field
func (f SubmissionFilter) Matches(s *entity.FormSubmission) bool {
	return (f.JobID == "" || s.JobID == f.JobID) &&
		(f.FormID == "" || s.FormID == f.FormID) &&
		(f.SubmittedBy == "" || s.SubmittedBy == f.SubmittedBy)
}

// SubmissionPolicy holds the business constants of the submission store
type SubmissionPolicy struct {
	// MaterialListFormID is the one form whose submitters may edit their own submissions
	MaterialListFormID string

	// DisplayedCap only feeds the "submission N/cap" message. It is never enforced.
	DisplayedCap int

	// MirrorTimeout bounds each durable write
	MirrorTimeout time.Duration
}

// DefaultSubmissionPolicy returns the stock policy
func DefaultSubmissionPolicy() SubmissionPolicy {
	return SubmissionPolicy{
		MaterialListFormID: entity.FormIDMaterialList,
		DisplayedCap:       3,
		MirrorTimeout:      5 * time.Second,
	}
}

// SubmissionService is the store of filed forms
type SubmissionService interface {
	// Load replaces the in-memory list with the durable records, newest first
	Load(ctx context.Context) error
	Submit(ctx context.Context, req SubmitRequest, submitter string) (*SubmitResult, error)
	List(ctx context.Context, filter SubmissionFilter) []*entity.FormSubmission
	Get(ctx context.Context, id string) (*entity.FormSubmission, error)
	Update(ctx context.Context, id string, patch Patch, caller Identity) (*entity.FormSubmission, error)
	Delete(ctx context.Context, id string, caller Identity) (*entity.FormSubmission, error)
	ClearAll(ctx context.Context, caller Identity) (int, error)
}

type submissionServiceImpl struct {
	mu          sync.RWMutex
	submissions []*entity.FormSubmission
	nextID      int

	mirror port.SubmissionMirror
	forms  FormService
	events dispatcher.Dispatcher
	policy SubmissionPolicy
	logger Logger
	now    func() time.Time
}

// SubmissionOption configures the submission service
type SubmissionOption func(*submissionServiceImpl)

// WithSubmissionClock overrides the time source
func WithSubmissionClock(now func() time.Time) SubmissionOption {
	return func(s *submissionServiceImpl) { s.now = now }
}

// WithSubmissionPolicy overrides the default policy
func WithSubmissionPolicy(p SubmissionPolicy) SubmissionOption {
	return func(s *submissionServiceImpl) { s.policy = p }
}

// NewSubmissionService creates the store. forms is used to stamp the form
// type on new submissions and may be nil.
func NewSubmissionService(
	mirror port.SubmissionMirror,
	forms FormService,
	events dispatcher.Dispatcher,
	logger Logger,
	opts ...SubmissionOption,
) SubmissionService {
	if logger == nil {
		logger = nopLogger{}
	}
	s := &submissionServiceImpl{
		submissions: []*entity.FormSubmission{},
		nextID:      1,
		mirror:      mirror,
		forms:       forms,
		events:      events,
		policy:      DefaultSubmissionPolicy(),
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load resets the store and repopulates it from durable storage. An
// unreachable mirror leaves the store empty rather than failing startup.
func (s *submissionServiceImpl) Load(ctx context.Context) error {
	s.mu.Lock()
	s.submissions = []*entity.FormSubmission{}
	s.nextID = 1
	s.mu.Unlock()

	if s.mirror == nil {
		return nil
	}

	ctx, cancel := s.mirrorContext(ctx)
	defer cancel()

	loaded, err := s.mirror.LoadAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load submissions from durable storage, starting empty", "error", err)
		return nil
	}

	next := 1
	for _, sub := range loaded {
		if sub.FormType == "" {
			sub.FormType = DefaultFormType
		}
		if n, ok := sub.SeqNumber(); ok && n >= next {
			next = n + 1
		}
	}

	s.mu.Lock()
	s.submissions = loaded
	s.nextID = next
	s.mu.Unlock()

	s.logger.Info("Loaded form submissions", "count", len(loaded), "next_id", next)
	return nil
}

// Submit files a submission. There is no cap on resubmission.
func (s *submissionServiceImpl) Submit(ctx context.Context, req SubmitRequest, submitter string) (*SubmitResult, error) {
	if req.JobID == "" || req.FormID == "" || req.Data == nil {
		return nil, invalid("", "jobId, formId, and data are required")
	}

	formType := DefaultFormType
	if s.forms != nil {
		if form, err := s.forms.Get(ctx, req.FormID); err == nil && form.FormType != "" {
			formType = form.FormType
		}
	}

	s.mu.Lock()
	prior := 0
	for _, sub := range s.submissions {
		if sub.JobID == req.JobID && sub.FormID == req.FormID && sub.SubmittedBy == submitter {
			prior++
		}
	}
	sub := &entity.FormSubmission{
		ID:               fmt.Sprintf("submission-%d", s.nextID),
		JobID:            req.JobID,
		FormID:           req.FormID,
		FormType:         formType,
		SubmittedBy:      submitter,
		Data:             req.Data.Clone().Normalize(),
		Signature:        req.Signature,
		SubmittedAt:      s.now(),
		SubmissionNumber: prior + 1,
	}
	s.nextID++
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()

	result := &SubmitResult{
		Submission:           sub.Clone(),
		Message:              fmt.Sprintf("Form submitted successfully (submission %d/%d)", sub.SubmissionNumber, s.policy.DisplayedCap),
		RemainingSubmissions: max(0, s.policy.DisplayedCap-sub.SubmissionNumber),
	}
	result.Mirrored, result.MirrorError = s.save(ctx, sub.Clone())

	s.logger.Info("Form submitted",
		"submission_id", sub.ID,
		"job_id", sub.JobID,
		"form_id", sub.FormID,
		"submitted_by", submitter,
		"submission_number", sub.SubmissionNumber,
		"mirrored", result.Mirrored,
	)
	s.publish(ctx, event.TypeSubmissionCreated, sub.ID, map[string]any{
		event.KeyJobID:            sub.JobID,
		event.KeyFormID:           sub.FormID,
		event.KeySubmittedBy:      submitter,
		event.KeySubmissionNumber: sub.SubmissionNumber,
	})

	return result, nil
}

// List returns matching submissions in insertion order
func (s *submissionServiceImpl) List(ctx context.Context, filter SubmissionFilter) []*entity.FormSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entity.FormSubmission{}
	for _, sub := range s.submissions {
		if filter.Matches(sub) {
			out = append(out, sub.Clone())
		}
	}
	return out
}

// Get returns a single submission
func (s *submissionServiceImpl) Get(ctx context.Context, id string) (*entity.FormSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.submissions[i].Clone(), nil
	}
	return nil, notFound("Form submission", id)
}

// Update edits a submission. Admins may edit anything; submitters may edit
// their own submissions of the material list form only.
func (s *submissionServiceImpl) Update(ctx context.Context, id string, patch Patch, caller Identity) (*entity.FormSubmission, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, notFound("Form submission", id)
	}

	current := s.submissions[i]
	owner := !caller.Anonymous() && current.SubmittedBy == caller.UserID
	if !caller.Admin && !(owner && current.FormID == s.policy.MaterialListFormID) {
		s.mu.Unlock()
		return nil, forbidden("You can only edit your own material list submissions")
	}

	merged, err := mergePatch(current, patch, "id")
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	merged.Data = merged.Data.Normalize()
	now := s.now()
	merged.UpdatedAt = &now
	merged.UpdatedBy = caller.UserID
	s.submissions[i] = merged
	s.mu.Unlock()

	mirrored, _ := s.save(ctx, merged.Clone())
	s.logger.Info("Form submission updated", "submission_id", id, "updated_by", caller.UserID, "keys", patchKeys(patch), "mirrored", mirrored)
	s.publish(ctx, event.TypeSubmissionUpdated, id, map[string]any{
		event.KeyJobID:  merged.JobID,
		event.KeyFormID: merged.FormID,
		event.KeyActor:  caller.UserID,
	})

	return merged.Clone(), nil
}

// Delete removes a submission and returns it. Admin only.
func (s *submissionServiceImpl) Delete(ctx context.Context, id string, caller Identity) (*entity.FormSubmission, error) {
	if !caller.Admin {
		return nil, forbidden("Only administrators can delete form submissions")
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, notFound("Form submission", id)
	}
	deleted := s.submissions[i]
	s.submissions = append(s.submissions[:i:i], s.submissions[i+1:]...)
	s.mu.Unlock()

	if s.mirror != nil {
		mctx, cancel := s.mirrorContext(ctx)
		if err := s.mirror.Delete(mctx, id); err != nil && !errors.Is(err, port.ErrMirrorDisabled) {
			s.logger.Error("Failed to delete submission from durable storage", "submission_id", id, "error", err)
		}
		cancel()
	}

	s.logger.Info("Form submission deleted", "submission_id", id, "deleted_by", caller.UserID)
	s.publish(ctx, event.TypeSubmissionDeleted, id, map[string]any{
		event.KeyJobID:  deleted.JobID,
		event.KeyFormID: deleted.FormID,
		event.KeyActor:  caller.UserID,
	})

	return deleted, nil
}

// ClearAll removes every submission and resets the id sequence. Admin only.
func (s *submissionServiceImpl) ClearAll(ctx context.Context, caller Identity) (int, error) {
	if !caller.Admin {
		return 0, forbidden("Only administrators can clear form submissions")
	}

	s.mu.Lock()
	cleared := len(s.submissions)
	s.submissions = []*entity.FormSubmission{}
	s.nextID = 1
	s.mu.Unlock()

	if s.mirror != nil {
		mctx, cancel := s.mirrorContext(ctx)
		n, err := s.mirror.DeleteAll(mctx)
		cancel()
		switch {
		case errors.Is(err, port.ErrMirrorDisabled):
		case err != nil:
			s.logger.Error("Failed to clear submissions from durable storage", "error", err)
		default:
			s.logger.Info("Cleared submissions from durable storage", "count", n)
		}
	}

	s.logger.Info("All form submissions cleared", "count", cleared, "cleared_by", caller.UserID)
	s.publish(ctx, event.TypeSubmissionsClear, "", map[string]any{
		event.KeyActor: caller.UserID,
		event.KeyCount: cleared,
	})

	return cleared, nil
}

// save mirrors a submission. Failures are logged and reported, never returned as errors.
func (s *submissionServiceImpl) save(ctx context.Context, sub *entity.FormSubmission) (bool, error) {
	if s.mirror == nil {
		return false, nil
	}
	ctx, cancel := s.mirrorContext(ctx)
	defer cancel()

	if err := s.mirror.Save(ctx, sub); err != nil {
		if errors.Is(err, port.ErrMirrorDisabled) {
			return false, nil
		}
		s.logger.Error("Failed to sync form submission to durable storage", "submission_id", sub.ID, "error", err)
		return false, err
	}
	return true, nil
}

// mirrorContext detaches durable writes from request cancellation and bounds them
func (s *submissionServiceImpl) mirrorContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.policy.MirrorTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.policy.MirrorTimeout)
}

func (s *submissionServiceImpl) indexOf(id string) int {
	for i, sub := range s.submissions {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

func (s *submissionServiceImpl) publish(ctx context.Context, t event.Type, subject string, payload map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.Dispatch(ctx, event.NewEvent(t, subject, payload)); err != nil {
		s.logger.Error("Failed to dispatch submission event", "event_type", t, "subject", subject, "error", strings.TrimSpace(err.Error()))
	}
}
