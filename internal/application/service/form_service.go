package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/garyjia/claim-forms/internal/application/dispatcher"
	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/catalog"
	"github.com/garyjia/claim-forms/internal/domain/entity"
	"github.com/garyjia/claim-forms/internal/domain/event"
	"github.com/garyjia/claim-forms/internal/formschema"
)

// CreateFormRequest is the input for registering a new form definition
type CreateFormRequest struct {
	Name                  string               `json:"name"`
	Description           string               `json:"description"`
	Fields                []entity.FieldSchema `json:"fields"`
	RawSchema             string               `json:"rawSchema"`
	IsTemplate            bool                 `json:"isTemplate"`
	RestrictedToCompanies []string             `json:"restrictedToCompanies"`
	PDFTemplate           string               `json:"pdfTemplate"`
	FormType              string               `json:"formType"`
}

// FormFilter narrows List results. Zero values match everything.
type FormFilter struct {
	IsTemplate *bool
	CompanyID  string
}

// FormService is the registry of form definitions
type FormService interface {
	// Load seeds the registry with the core forms and the external predefined forms
	Load(ctx context.Context) error
	Create(ctx context.Context, req CreateFormRequest, createdBy string) (*entity.FormDefinition, error)
	List(ctx context.Context, filter FormFilter) []*entity.FormDefinition
	Get(ctx context.Context, id string) (*entity.FormDefinition, error)
	Update(ctx context.Context, id string, patch Patch) (*entity.FormDefinition, error)
	Delete(ctx context.Context, id string, caller Identity) error
}

type formServiceImpl struct {
	mu     sync.RWMutex
	forms  []*entity.FormDefinition
	nextID int
	source port.FormSource
	events dispatcher.Dispatcher
	logger Logger
	now    func() time.Time
}

// FormOption configures the form service
type FormOption func(*formServiceImpl)

// WithFormClock overrides the time source
func WithFormClock(now func() time.Time) FormOption {
	return func(s *formServiceImpl) { s.now = now }
}

// NewFormService creates a registry backed by an optional predefined-forms source
func NewFormService(source port.FormSource, events dispatcher.Dispatcher, logger Logger, opts ...FormOption) FormService {
	if logger == nil {
		logger = nopLogger{}
	}
	s := &formServiceImpl{
		source: source,
		events: events,
		logger: logger,
		now:    time.Now,
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load merges core forms with predefined ones, core winning on id collision.
// A failing source is logged and the registry falls back to the core set.
func (s *formServiceImpl) Load(ctx context.Context) error {
	core := catalog.CoreForms(s.now())

	var predefined []*entity.FormDefinition
	if s.source != nil {
		loaded, err := s.source.Load(ctx)
		if err != nil {
			s.logger.Error("Failed to load predefined forms, using core forms only", "error", err)
		} else {
			predefined = loaded
		}
	}

	coreIDs := make(map[string]bool, len(core))
	for _, f := range core {
		coreIDs[f.ID] = true
	}

	forms := make([]*entity.FormDefinition, 0, len(core)+len(predefined))
	for _, f := range predefined {
		if coreIDs[f.ID] {
			s.logger.Info("Core form overrides predefined form", "form_id", f.ID)
			continue
		}
		forms = append(forms, f)
	}
	forms = append(forms, core...)

	next := len(predefined) + 1
	for _, f := range forms {
		if n, ok := formSeq(f.ID); ok && n >= next {
			next = n + 1
		}
	}

	s.mu.Lock()
	s.forms = forms
	s.nextID = next
	s.mu.Unlock()

	s.logger.Info("Form registry loaded",
		"core_forms", len(core),
		"predefined_forms", len(predefined),
		"total_forms", len(forms),
	)
	return nil
}

// Create registers a new form. Parsed raw schema replaces the supplied fields
// when it yields at least one field.
func (s *formServiceImpl) Create(ctx context.Context, req CreateFormRequest, createdBy string) (*entity.FormDefinition, error) {
	if req.Name == "" {
		return nil, invalid("name", "Form name is required")
	}

	fields := req.Fields
	if req.RawSchema != "" {
		if parsed := formschema.Parse(req.RawSchema); len(parsed) > 0 {
			fields = parsed
		}
	}

	restricted := req.RestrictedToCompanies
	if restricted == nil {
		restricted = []string{}
	}

	s.mu.Lock()
	seq := s.nextID
	s.nextID++

	ided := make([]entity.FieldSchema, len(fields))
	for i, f := range fields {
		f.ID = fmt.Sprintf("field-%d-%d", seq, i+1)
		ided[i] = f
	}

	now := s.now()
	form := &entity.FormDefinition{
		ID:                    fmt.Sprintf("form-%d", seq),
		Name:                  req.Name,
		Description:           req.Description,
		Fields:                ided,
		IsTemplate:            req.IsTemplate,
		RestrictedToCompanies: restricted,
		PDFTemplate:           req.PDFTemplate,
		FormType:              req.FormType,
		CreatedBy:             createdBy,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	s.forms = append(s.forms, form)
	s.mu.Unlock()

	s.logger.Info("Form created", "form_id", form.ID, "fields", len(form.Fields), "created_by", createdBy)
	s.publish(ctx, event.TypeFormCreated, form.ID, map[string]any{event.KeyActor: createdBy})

	return form.Clone(), nil
}

// List returns forms matching the filter, in registry order
func (s *formServiceImpl) List(ctx context.Context, filter FormFilter) []*entity.FormDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entity.FormDefinition{}
	for _, f := range s.forms {
		if filter.IsTemplate != nil && f.IsTemplate != *filter.IsTemplate {
			continue
		}
		if filter.CompanyID != "" && !f.AvailableTo(filter.CompanyID) {
			continue
		}
		out = append(out, f.Clone())
	}
	return out
}

// Get returns the form with the given id
func (s *formServiceImpl) Get(ctx context.Context, id string) (*entity.FormDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.forms[i].Clone(), nil
	}
	return nil, notFound("Form", id)
}

// Update shallow-merges the patch onto the stored form. The merged result is
// not validated; the id cannot be changed.
func (s *formServiceImpl) Update(ctx context.Context, id string, patch Patch) (*entity.FormDefinition, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, notFound("Form", id)
	}

	merged, err := mergePatch(s.forms[i], patch, "id")
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	merged.UpdatedAt = s.now()
	if merged.RestrictedToCompanies == nil {
		merged.RestrictedToCompanies = []string{}
	}
	s.forms[i] = merged
	s.mu.Unlock()

	s.logger.Info("Form updated", "form_id", id, "keys", patchKeys(patch))
	s.publish(ctx, event.TypeFormUpdated, id, nil)

	return merged.Clone(), nil
}

// Delete removes a form. Only administrators may delete.
func (s *formServiceImpl) Delete(ctx context.Context, id string, caller Identity) error {
	if !caller.Admin {
		return forbidden("Only administrators can delete forms")
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return notFound("Form", id)
	}
	s.forms = append(s.forms[:i], s.forms[i+1:]...)
	s.mu.Unlock()

	s.logger.Info("Form deleted", "form_id", id, "deleted_by", caller.UserID)
	s.publish(ctx, event.TypeFormDeleted, id, map[string]any{event.KeyActor: caller.UserID})
	return nil
}

func (s *formServiceImpl) indexOf(id string) int {
	for i, f := range s.forms {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (s *formServiceImpl) publish(ctx context.Context, t event.Type, subject string, payload map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.Dispatch(ctx, event.NewEvent(t, subject, payload)); err != nil {
		s.logger.Error("Failed to dispatch form event", "event_type", t, "form_id", subject, "error", err)
	}
}

func formSeq(id string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(id, "form-%d", &n); err != nil {
		return 0, false
	}
	return n, fmt.Sprintf("form-%d", n) == id
}

func patchKeys(p Patch) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
