package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/catalog"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// SignatureService maps form types to the rectangle the signature is stamped into
type SignatureService interface {
	// Get returns the placement for the form type, or the default placement
	Get(ctx context.Context, formType string) entity.SignaturePlacement
	Update(ctx context.Context, formType string, placement entity.SignaturePlacement, caller Identity) (entity.SignaturePlacement, error)
	All(ctx context.Context) map[string]entity.SignaturePlacement
}

type signatureServiceImpl struct {
	mu         sync.RWMutex
	placements map[string]entity.SignaturePlacement

	forms     FormService
	inspector port.TemplateInspector
	validate  *validator.Validate
	logger    Logger
}

// NewSignatureService creates the placement map seeded with the stock positions.
// forms and inspector are optional; without them placements are not bounds-checked.
func NewSignatureService(forms FormService, inspector port.TemplateInspector, logger Logger) SignatureService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &signatureServiceImpl{
		placements: catalog.SignaturePlacements(),
		forms:      forms,
		inspector:  inspector,
		validate:   validator.New(),
		logger:     logger,
	}
}

func (s *signatureServiceImpl) Get(ctx context.Context, formType string) entity.SignaturePlacement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.placements[formType]; ok {
		return p
	}
	return entity.DefaultSignaturePlacement
}

// Update replaces the placement for a form type. A zero opacity is stored as the default.
func (s *signatureServiceImpl) Update(ctx context.Context, formType string, placement entity.SignaturePlacement, caller Identity) (entity.SignaturePlacement, error) {
	if !caller.Admin {
		return entity.SignaturePlacement{}, forbidden("Only administrators can change signature positions")
	}
	if strings.TrimSpace(formType) == "" {
		return entity.SignaturePlacement{}, invalid("formType", "Form type is required")
	}

	placement = placement.WithDefaultOpacity()
	if err := s.validate.Struct(placement); err != nil {
		return entity.SignaturePlacement{}, invalid("placement", placementMessage(err))
	}
	if err := s.checkBounds(ctx, formType, placement); err != nil {
		return entity.SignaturePlacement{}, err
	}

	s.mu.Lock()
	s.placements[formType] = placement
	s.mu.Unlock()

	s.logger.Info("Signature position updated",
		"form_type", formType,
		"x", placement.X,
		"y", placement.Y,
		"updated_by", caller.UserID,
	)
	return placement, nil
}

func (s *signatureServiceImpl) All(ctx context.Context) map[string]entity.SignaturePlacement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]entity.SignaturePlacement, len(s.placements))
	for k, v := range s.placements {
		out[k] = v
	}
	return out
}

// checkBounds rejects rectangles that leave the first page of the form's PDF
// template. Forms without a template on disk are accepted unchecked.
func (s *signatureServiceImpl) checkBounds(ctx context.Context, formType string, p entity.SignaturePlacement) error {
	if s.forms == nil || s.inspector == nil {
		return nil
	}
	form, err := s.forms.Get(ctx, formType)
	if err != nil || form.PDFTemplate == "" {
		return nil
	}

	page, ok, err := s.inspector.FirstPageSize(ctx, form.PDFTemplate)
	if err != nil {
		s.logger.Error("Failed to inspect PDF template", "template", form.PDFTemplate, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	if p.X+p.Width > page.Width || p.Y+p.Height > page.Height {
		return invalid("placement", fmt.Sprintf(
			"Signature area %.0fx%.0f at (%.0f, %.0f) falls outside the %.0fx%.0f page of %s",
			p.Width, p.Height, p.X, p.Y, page.Width, page.Height, form.PDFTemplate,
		))
	}
	return nil
}

func placementMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s must be %s %s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
	}
	return strings.Join(parts, "; ")
}
