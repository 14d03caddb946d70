package formfill

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/domain/entity"
	"github.com/garyjia/claim-forms/internal/domain/workflow"
)

// SignatureKey is the data key the captured signature image is mirrored under
const SignatureKey = "signature"

// ErrSessionNotFound is returned for unknown or finished session ids
var ErrSessionNotFound = errors.New("form fill session not found")

// IncompleteError carries the failing fields of a rejected submit
type IncompleteError struct {
	Fields []FieldError
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("Please fill in all required fields. %d field(s) need attention.", len(e.Fields))
}

// FieldIDs returns the failing field ids in form order
func (e *IncompleteError) FieldIDs() []string {
	ids := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		ids[i] = f.FieldID
	}
	return ids
}

// StartRequest opens a session for one job and form
type StartRequest struct {
	JobID  string               `json:"jobId"`
	FormID string               `json:"formId"`
	Job    entity.JobRecord     `json:"job"`
	Staff  []entity.StaffMember `json:"staff"`
}

// View is the client-facing snapshot of a session
type View struct {
	SessionID            string                `json:"sessionId"`
	JobID                string                `json:"jobId"`
	FormID               string                `json:"formId"`
	FormName             string                `json:"formName"`
	Phase                workflow.State        `json:"phase"`
	RequiresSignature    bool                  `json:"requiresSignature"`
	OpenSignatureCapture bool                  `json:"openSignatureCapture"`
	HasSignature         bool                  `json:"hasSignature"`
	Fields               []FieldView           `json:"fields"`
	Data                 entity.SubmissionData `json:"data"`
	Errors               []FieldError          `json:"errors,omitempty"`
	Permitted            []workflow.Trigger    `json:"permitted"`
}

// SessionManager drives form fills on behalf of clients that do not run the engine themselves
type SessionManager interface {
	Start(ctx context.Context, req StartRequest) (*View, error)
	Get(ctx context.Context, id string) (*View, error)
	SetField(ctx context.Context, id, fieldID string, value any) (*View, error)
	Next(ctx context.Context, id string) (*View, error)
	Back(ctx context.Context, id string) (*View, error)
	CaptureSignature(ctx context.Context, id, image string) (*View, error)
	Validate(ctx context.Context, id string) ([]FieldError, error)
	Submit(ctx context.Context, id, submitter string) (*service.SubmitResult, error)
	Discard(ctx context.Context, id string) error

	// ExpireIdle drops sessions idle for longer than the session TTL and
	// returns how many went. Their drafts stay in the draft store.
	ExpireIdle(ctx context.Context) int
}

type session struct {
	mu         sync.Mutex
	id         string
	jobID      string
	form       *entity.FormDefinition
	job        entity.JobRecord
	data       entity.SubmissionData
	autoFilled map[string]bool
	signature  string
	errors     []FieldError
	machine    workflow.StateMachine
	opened     time.Time

	// lastActive is guarded by the manager's mu
	lastActive time.Time
}

type sessionManagerImpl struct {
	mu       sync.Mutex
	sessions map[string]*session

	engine      *Engine
	forms       service.FormService
	submissions service.SubmissionService
	drafts      port.DraftStore
	logger      service.Logger

	signatureMandatory bool
	ttl                time.Duration
	now                func() time.Time
}

// ManagerOption configures the session manager
type ManagerOption func(*sessionManagerImpl)

// WithMandatorySignature refuses submission from the signature phase until a signature is captured
func WithMandatorySignature(required bool) ManagerOption {
	return func(m *sessionManagerImpl) { m.signatureMandatory = required }
}

// WithSessionTTL expires sessions idle for longer than ttl. Zero keeps them until submit or discard.
func WithSessionTTL(ttl time.Duration) ManagerOption {
	return func(m *sessionManagerImpl) { m.ttl = ttl }
}

// WithManagerClock overrides the time source
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *sessionManagerImpl) { m.now = now }
}

// NewSessionManager creates a session manager. drafts may be nil to disable draft persistence.
func NewSessionManager(
	engine *Engine,
	forms service.FormService,
	submissions service.SubmissionService,
	drafts port.DraftStore,
	logger service.Logger,
	opts ...ManagerOption,
) SessionManager {
	if logger == nil {
		logger = nopLogger{}
	}
	m := &sessionManagerImpl{
		sessions:    make(map[string]*session),
		engine:      engine,
		forms:       forms,
		submissions: submissions,
		drafts:      drafts,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start loads the form and any saved draft, applies auto-fill once, and saves the result as the draft
func (m *sessionManagerImpl) Start(ctx context.Context, req StartRequest) (*View, error) {
	if req.JobID == "" || req.FormID == "" {
		return nil, &service.ValidationError{Message: "jobId and formId are required"}
	}

	form, err := m.forms.Get(ctx, req.FormID)
	if err != nil {
		return nil, err
	}

	draft := m.loadDraft(ctx, req.JobID, req.FormID)
	data, autoFilled := m.engine.Prefill(form, req.Job, req.Staff, draft)

	s := &session{
		id:         uuid.New().String(),
		jobID:      req.JobID,
		form:       form,
		job:        req.Job,
		data:       data,
		autoFilled: autoFilled,
		signature:  data.String(SignatureKey),
		opened:     m.now(),
	}
	s.lastActive = s.opened
	s.machine = workflow.NewFillMachine(workflow.FillPolicy{
		RequiresSignature: m.engine.RequiresSignature(form),
		SignatureCaptured: func() bool { return !m.signatureMandatory || s.signature != "" },
	}, workflow.StateStaff)

	m.saveDraft(ctx, s)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Info("Form fill session started",
		"session_id", s.id,
		"job_id", s.jobID,
		"form_id", form.ID,
		"draft_restored", draft != nil,
		"auto_filled", len(autoFilled),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	return m.view(ctx, s, false), nil
}

func (m *sessionManagerImpl) Get(ctx context.Context, id string) (*View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.view(ctx, s, false), nil
}

// SetField records one edit, re-derives calculated fields and auto-saves the draft
func (m *sessionManagerImpl) SetField(ctx context.Context, id, fieldID string, value any) (*View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.form.Field(fieldID); !ok && fieldID != SignatureKey {
		return nil, &service.ValidationError{Field: "fieldId", Message: fmt.Sprintf("Unknown field %s", fieldID)}
	}

	s.data = m.engine.Apply(s.form, s.job, s.data, fieldID, value)
	delete(s.autoFilled, fieldID)
	s.errors = nil
	m.saveDraft(ctx, s)

	return m.view(ctx, s, false), nil
}

// Next moves forward one phase. Entering the signature phase asks the client to open capture.
func (m *sessionManagerImpl) Next(ctx context.Context, id string) (*View, error) {
	return m.move(ctx, id, workflow.TriggerNext)
}

// Back moves to the previous phase without discarding data
func (m *sessionManagerImpl) Back(ctx context.Context, id string) (*View, error) {
	return m.move(ctx, id, workflow.TriggerBack)
}

func (m *sessionManagerImpl) move(ctx context.Context, id string, trigger workflow.Trigger) (*View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.machine.State()
	if err := s.machine.Fire(ctx, trigger); err != nil {
		return nil, err
	}
	s.errors = nil

	m.logger.Info("Form fill phase changed", "session_id", s.id, "from", from, "to", s.machine.State())
	return m.view(ctx, s, s.machine.State() == workflow.StateSignature), nil
}

// CaptureSignature stores the signature image and mirrors it into the draft data
func (m *sessionManagerImpl) CaptureSignature(ctx context.Context, id, image string) (*View, error) {
	if image == "" {
		return nil, &service.ValidationError{Field: SignatureKey, Message: "Signature image is required"}
	}
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine.State() != workflow.StateSignature {
		return nil, fmt.Errorf("capture signature in %s phase: %w", s.machine.State(), workflow.ErrInvalidTransition)
	}

	s.signature = image
	s.data[SignatureKey] = image
	m.saveDraft(ctx, s)

	return m.view(ctx, s, false), nil
}

func (m *sessionManagerImpl) Validate(ctx context.Context, id string) ([]FieldError, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errors = m.engine.Validate(s.form, s.data, activeSection(s.machine.State()))
	return s.errors, nil
}

// Submit validates the active section, files the submission and ends the session
func (m *sessionManagerImpl) Submit(ctx context.Context, id, submitter string) (*service.SubmitResult, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if errs := m.engine.Validate(s.form, s.data, activeSection(s.machine.State())); len(errs) > 0 {
		s.errors = errs
		return nil, &IncompleteError{Fields: errs}
	}
	if !s.machine.CanFire(ctx, workflow.TriggerSubmit) {
		if s.machine.State() == workflow.StateSignature {
			return nil, fmt.Errorf("submit without signature: %w", workflow.ErrGuardFailed)
		}
		return nil, fmt.Errorf("submit from %s phase: %w", s.machine.State(), workflow.ErrInvalidTransition)
	}

	result, err := m.submissions.Submit(ctx, service.SubmitRequest{
		JobID:     s.jobID,
		FormID:    s.form.ID,
		Data:      s.data.Clone(),
		Signature: s.signature,
	}, submitter)
	if err != nil {
		return nil, err
	}
	if err := s.machine.Fire(ctx, workflow.TriggerSubmit); err != nil {
		return nil, err
	}

	if m.drafts != nil {
		if err := m.drafts.Delete(ctx, DraftKey(s.jobID, s.form.ID)); err != nil {
			m.logger.Error("Failed to clear form draft", "session_id", s.id, "error", err)
		}
	}

	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()

	m.logger.Info("Form fill session submitted",
		"session_id", s.id,
		"submission_id", result.Submission.ID,
		"submission_number", result.Submission.SubmissionNumber,
		"duration", m.now().Sub(s.opened).String(),
	)
	return result, nil
}

// Discard drops a session. The draft is kept so a later session resumes it.
func (m *sessionManagerImpl) Discard(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *sessionManagerImpl) ExpireIdle(ctx context.Context) int {
	now := m.now()

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if m.idle(s, now) {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	held := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		m.logger.Info("Expired idle form fill sessions", "count", len(expired), "remaining", held, "ttl", m.ttl.String())
	}
	return len(expired)
}

// lookup returns a live session and marks it active. An idle session found
// before the reaper gets to it is dropped here.
func (m *sessionManagerImpl) lookup(id string) (*session, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.idle(s, now) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	s.lastActive = now
	return s, nil
}

// idle must be called with m.mu held
func (m *sessionManagerImpl) idle(s *session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.lastActive) > m.ttl
}

func (m *sessionManagerImpl) loadDraft(ctx context.Context, jobID, formID string) entity.SubmissionData {
	if m.drafts == nil {
		return nil
	}
	draft, ok, err := m.drafts.Load(ctx, DraftKey(jobID, formID))
	if err != nil {
		m.logger.Error("Failed to load form draft", "job_id", jobID, "form_id", formID, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return draft
}

// saveDraft writes the whole data map; the last write wins
func (m *sessionManagerImpl) saveDraft(ctx context.Context, s *session) {
	if m.drafts == nil {
		return
	}
	if err := m.drafts.Save(ctx, DraftKey(s.jobID, s.form.ID), s.data.Clone()); err != nil {
		m.logger.Error("Failed to save form draft", "session_id", s.id, "error", err)
	}
}

// view must be called with s.mu held
func (m *sessionManagerImpl) view(ctx context.Context, s *session, openCapture bool) *View {
	phase := s.machine.State()
	return &View{
		SessionID:            s.id,
		JobID:                s.jobID,
		FormID:               s.form.ID,
		FormName:             s.form.Name,
		Phase:                phase,
		RequiresSignature:    m.engine.RequiresSignature(s.form),
		OpenSignatureCapture: openCapture,
		HasSignature:         s.signature != "",
		Fields:               m.engine.Render(s.form, s.data, activeSection(phase), s.autoFilled, s.errors),
		Data:                 s.data.Clone(),
		Errors:               s.errors,
		Permitted:            s.machine.PermittedTriggers(ctx),
	}
}

// activeSection maps a phase to the field section it edits. The signature
// phase completes the client section.
func activeSection(phase workflow.State) entity.Section {
	if phase == workflow.StateStaff {
		return entity.SectionStaff
	}
	return entity.SectionClient
}
