package entity

import (
	"fmt"
	"time"
)

// FormDefinition is a named, ordered set of fields with template metadata
type FormDefinition struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Description           string        `json:"description"`
	Fields                []FieldSchema `json:"fields"`
	IsTemplate            bool          `json:"isTemplate"`
	RestrictedToCompanies []string      `json:"restrictedToCompanies"`
	PDFTemplate           string        `json:"pdfTemplate,omitempty"`
	FormType              string        `json:"formType,omitempty"`
	CreatedBy             string        `json:"createdBy"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// Field returns the field with the given id
func (f *FormDefinition) Field(id string) (FieldSchema, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return FieldSchema{}, false
}

// HasExplicitSections reports whether any field declares a section
func (f *FormDefinition) HasExplicitSections() bool {
	for _, field := range f.Fields {
		if field.Section != "" {
			return true
		}
	}
	return false
}

// AvailableTo reports whether the form may be used by the given company.
// An empty restriction set means the form is unrestricted.
func (f *FormDefinition) AvailableTo(companyID string) bool {
	if len(f.RestrictedToCompanies) == 0 {
		return true
	}
	for _, id := range f.RestrictedToCompanies {
		if id == companyID {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of the field list
func (f *FormDefinition) Validate() error {
	ids := make(map[string]bool, len(f.Fields))
	for _, field := range f.Fields {
		if field.ID == "" {
			return fmt.Errorf("form %s: field %q has no id", f.ID, field.Label)
		}
		if ids[field.ID] {
			return fmt.Errorf("form %s: duplicate field id %s", f.ID, field.ID)
		}
		ids[field.ID] = true
		if !field.Type.IsValid() {
			return fmt.Errorf("form %s: field %s has unknown type %q", f.ID, field.ID, field.Type)
		}
		if field.Type == FieldTypeSelect && len(field.Options) == 0 {
			return fmt.Errorf("form %s: select field %s has no options", f.ID, field.ID)
		}
	}
	for _, field := range f.Fields {
		if field.DependsOn != "" && (!ids[field.DependsOn] || field.DependsOn == field.ID) {
			return fmt.Errorf("form %s: field %s depends on unknown field %s", f.ID, field.ID, field.DependsOn)
		}
	}
	return nil
}

// Clone returns a deep copy of the definition
func (f *FormDefinition) Clone() *FormDefinition {
	c := *f
	c.Fields = make([]FieldSchema, len(f.Fields))
	for i, field := range f.Fields {
		field.Options = append([]string(nil), field.Options...)
		field.SumOf = append([]string(nil), field.SumOf...)
		c.Fields[i] = field
	}
	c.RestrictedToCompanies = append([]string{}, f.RestrictedToCompanies...)
	return &c
}
