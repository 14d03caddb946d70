package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// ErrExportUnavailable is returned when no exporter is configured
var ErrExportUnavailable = errors.New("submission export is not configured")

// ExportService renders filtered submissions into a spreadsheet
type ExportService interface {
	Export(ctx context.Context, w io.Writer, filter SubmissionFilter) (int, error)
}

type exportServiceImpl struct {
	submissions SubmissionService
	forms       FormService
	exporter    port.SubmissionExporter
	logger      Logger
}

// NewExportService creates an export service
func NewExportService(submissions SubmissionService, forms FormService, exporter port.SubmissionExporter, logger Logger) ExportService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &exportServiceImpl{
		submissions: submissions,
		forms:       forms,
		exporter:    exporter,
		logger:      logger,
	}
}

// Export writes every matching submission and returns how many were written
func (s *exportServiceImpl) Export(ctx context.Context, w io.Writer, filter SubmissionFilter) (int, error) {
	if s.exporter == nil {
		return 0, ErrExportUnavailable
	}

	subs := s.submissions.List(ctx, filter)
	forms := make(map[string]*entity.FormDefinition)
	for _, sub := range subs {
		if _, seen := forms[sub.FormID]; seen {
			continue
		}
		if form, err := s.forms.Get(ctx, sub.FormID); err == nil {
			forms[sub.FormID] = form
		}
	}

	if err := s.exporter.Export(w, forms, subs); err != nil {
		return 0, fmt.Errorf("export submissions: %w", err)
	}

	s.logger.Info("Submissions exported",
		"count", len(subs),
		"job_id", filter.JobID,
		"form_id", filter.FormID,
		"submitted_by", filter.SubmittedBy,
	)
	return len(subs), nil
}
