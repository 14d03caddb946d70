package port

import (
	"context"
	"io"

	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// FormSource supplies externally maintained form definitions at startup
type FormSource interface {
	Load(ctx context.Context) ([]*entity.FormDefinition, error)
}

// PageSize is the size of a PDF page in points
type PageSize struct {
	Width  float64
	Height float64
}

// TemplateInspector reads page geometry from the PDF templates forms are rendered onto
type TemplateInspector interface {
	// FirstPageSize returns the size of page one of the named template.
	// ok is false when the template is not available.
	FirstPageSize(ctx context.Context, template string) (size PageSize, ok bool, err error)
}

// SubmissionExporter writes submissions to a spreadsheet
type SubmissionExporter interface {
	Export(w io.Writer, forms map[string]*entity.FormDefinition, submissions []*entity.FormSubmission) error
}
