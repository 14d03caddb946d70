// Package export renders form submissions as spreadsheets.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

const (
	sheetName   = "Submissions"
	headerRow   = 1
	dataRowFrom = 2
)

var fixedHeaders = []string{
	"Submission ID", "Job ID", "Form", "Form Type", "Submitted By",
	"Submitted At", "Submission #", "Signed",
}

// column is one data column of the sheet
type column struct {
	key   string
	title string
}

// XLSXExporter writes one row per submission and one column per data key.
// Keys known to a form use its field label and order; unknown keys follow alphabetically.
type XLSXExporter struct {
	logger *zap.Logger
}

// NewXLSXExporter creates an exporter
func NewXLSXExporter(logger *zap.Logger) *XLSXExporter {
	return &XLSXExporter{logger: logger}
}

// Export writes the workbook to w
func (e *XLSXExporter) Export(w io.Writer, forms map[string]*entity.FormDefinition, submissions []*entity.FormSubmission) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	columns := dataColumns(forms, submissions)

	headers := make([]any, 0, len(fixedHeaders)+len(columns))
	for _, h := range fixedHeaders {
		headers = append(headers, h)
	}
	for _, c := range columns {
		headers = append(headers, c.title)
	}
	if err := file.SetSheetRow(sheetName, cellName(1, headerRow), &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last := cellName(len(headers), headerRow)
		if err := file.SetCellStyle(sheetName, cellName(1, headerRow), last, style); err != nil {
			e.logger.Warn("Failed to style header row", zap.Error(err))
		}
	}

	for i, sub := range submissions {
		row := dataRowFrom + i
		values := []any{
			sub.ID,
			sub.JobID,
			formName(forms, sub.FormID),
			sub.FormType,
			sub.SubmittedBy,
			sub.SubmittedAt.UTC().Format(time.RFC3339),
			sub.SubmissionNumber,
			yesNo(sub.Signature != ""),
		}
		for _, c := range columns {
			values = append(values, cellValue(sub.Data[c.key]))
		}
		if err := file.SetSheetRow(sheetName, cellName(1, row), &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Submissions workbook written",
		zap.Int("rows", len(submissions)),
		zap.Int("data_columns", len(columns)))
	return nil
}

func dataColumns(forms map[string]*entity.FormDefinition, submissions []*entity.FormSubmission) []column {
	present := make(map[string]bool)
	for _, sub := range submissions {
		for k := range sub.Data {
			present[k] = true
		}
	}

	var columns []column
	placed := make(map[string]bool)

	formIDs := make([]string, 0, len(forms))
	for id := range forms {
		formIDs = append(formIDs, id)
	}
	sort.Strings(formIDs)

	for _, id := range formIDs {
		for _, f := range forms[id].Fields {
			if !present[f.ID] || placed[f.ID] {
				continue
			}
			title := f.Label
			if title == "" {
				title = f.ID
			}
			columns = append(columns, column{key: f.ID, title: title})
			placed[f.ID] = true
		}
	}

	var rest []string
	for k := range present {
		if !placed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		columns = append(columns, column{key: k, title: k})
	}
	return columns
}

func formName(forms map[string]*entity.FormDefinition, id string) string {
	if f, ok := forms[id]; ok && f.Name != "" {
		return f.Name
	}
	return id
}

func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		return yesNo(val)
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprint(val)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// only reachable with non-positive coordinates
		return "A1"
	}
	return name
}

var _ port.SubmissionExporter = (*XLSXExporter)(nil)
