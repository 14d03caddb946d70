// Package formsource loads the externally maintained predefined form definitions.
package formsource

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

//go:embed schema/predefined_forms.schema.json
var schemaJSON []byte

// SchemaError lists the document paths that failed schema validation
type SchemaError struct {
	Path   string
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("predefined forms %s failed validation: %s", e.Path, strings.Join(e.Errors, "; "))
}

type document struct {
	Forms []*entity.FormDefinition `json:"forms"`
}

// FileSource reads predefined forms from a JSON file
type FileSource struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// NewFileSource creates a source for the file at path
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Load reads and validates the file. A missing file yields no forms.
func (s *FileSource) Load(ctx context.Context) ([]*entity.FormDefinition, error) {
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Info("No predefined forms file", zap.String("path", s.path))
		return []*entity.FormDefinition{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read predefined forms: %w", err)
	}

	forms, err := Parse(content, s.now())
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Path = s.path
		}
		return nil, err
	}

	s.logger.Info("Loaded predefined forms",
		zap.String("path", s.path),
		zap.Int("count", len(forms)))
	return forms, nil
}

// Parse validates content against the embedded schema and decodes it.
// Forms without a creator or timestamp are stamped as system forms created at now.
func Parse(content []byte, now time.Time) ([]*entity.FormDefinition, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(content),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate predefined forms: %w", err)
	}
	if !result.Valid() {
		se := &SchemaError{Errors: make([]string, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			se.Errors = append(se.Errors, field+": "+desc.Description())
		}
		return nil, se
	}

	var doc document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode predefined forms: %w", err)
	}

	seen := make(map[string]bool, len(doc.Forms))
	for _, f := range doc.Forms {
		if seen[f.ID] {
			return nil, fmt.Errorf("duplicate predefined form id %s", f.ID)
		}
		seen[f.ID] = true
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if f.CreatedBy == "" {
			f.CreatedBy = "system"
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now
		}
		if f.UpdatedAt.IsZero() {
			f.UpdatedAt = f.CreatedAt
		}
		if f.RestrictedToCompanies == nil {
			f.RestrictedToCompanies = []string{}
		}
	}
	return doc.Forms, nil
}

var _ port.FormSource = (*FileSource)(nil)
