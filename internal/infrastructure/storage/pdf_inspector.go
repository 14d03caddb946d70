package storage

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/garyjia/claim-forms/internal/application/port"
)

// PDFInspector reads page geometry from templates with MuPDF
type PDFInspector struct {
	templates *TemplateStore
	logger    *zap.Logger
}

// NewPDFInspector creates an inspector over the given template store
func NewPDFInspector(templates *TemplateStore, logger *zap.Logger) *PDFInspector {
	return &PDFInspector{
		templates: templates,
		logger:    logger,
	}
}

// FirstPageSize returns the bounds of page one in points.
// A template that is not on disk reports ok=false and no error.
func (p *PDFInspector) FirstPageSize(ctx context.Context, template string) (port.PageSize, bool, error) {
	exists, err := p.templates.Exists(ctx, template)
	if err != nil {
		return port.PageSize{}, false, err
	}
	if !exists {
		p.logger.Debug("PDF template not on disk", zap.String("template", template))
		return port.PageSize{}, false, nil
	}

	fullPath, err := p.templates.Resolve(template)
	if err != nil {
		return port.PageSize{}, false, err
	}

	doc, err := fitz.New(fullPath)
	if err != nil {
		return port.PageSize{}, false, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return port.PageSize{}, false, fmt.Errorf("PDF template %s has no pages", template)
	}

	bounds, err := doc.Bound(0)
	if err != nil {
		return port.PageSize{}, false, fmt.Errorf("failed to read page bounds: %w", err)
	}

	size := port.PageSize{
		Width:  float64(bounds.Dx()),
		Height: float64(bounds.Dy()),
	}
	p.logger.Debug("Inspected PDF template",
		zap.String("template", template),
		zap.Float64("width", size.Width),
		zap.Float64("height", size.Height))
	return size, true, nil
}

var _ port.TemplateInspector = (*PDFInspector)(nil)
