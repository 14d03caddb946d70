package entity

import "strings"

// FieldType is the input kind of a form field
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeNumber    FieldType = "number"
	FieldTypeEmail     FieldType = "email"
	FieldTypeTel       FieldType = "tel"
	FieldTypeDate      FieldType = "date"
	FieldTypeSelect    FieldType = "select"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeSignature FieldType = "signature"
)

var validFieldTypes = map[FieldType]bool{
	FieldTypeText:      true,
	FieldTypeTextarea:  true,
	FieldTypeNumber:    true,
	FieldTypeEmail:     true,
	FieldTypeTel:       true,
	FieldTypeDate:      true,
	FieldTypeSelect:    true,
	FieldTypeCheckbox:  true,
	FieldTypeSignature: true,
}

// IsValid reports whether the field type is one of the known kinds
func (t FieldType) IsValid() bool {
	return validFieldTypes[t]
}

// Section partitions a form's fields between the staff and client phases
type Section string

const (
	SectionStaff  Section = "staff"
	SectionClient Section = "client"
)

// FieldSchema describes a single form field
type FieldSchema struct {
	ID            string    `json:"id"`
	Label         string    `json:"label"`
	Type          FieldType `json:"type"`
	Required      bool      `json:"required"`
	Options       []string  `json:"options,omitempty"`
	Placeholder   string    `json:"placeholder,omitempty"`
	DefaultValue  string    `json:"defaultValue,omitempty"`
	AutoFillFrom  string    `json:"autoFillFrom,omitempty"`
	AutoCalculate bool      `json:"autoCalculate,omitempty"`
	DependsOn     string    `json:"dependsOn,omitempty"`
	ShowWhen      string    `json:"showWhen,omitempty"`
	Section       Section   `json:"section,omitempty"`
	Readonly      bool      `json:"readonly,omitempty"`
	SumOf         []string  `json:"sumOf,omitempty"`
}

// IsConditional reports whether the field is only shown for a specific sibling value
func (f FieldSchema) IsConditional() bool {
	return f.DependsOn != ""
}

// IsSignature reports whether the field captures a signature. Signature capture
// happens outside the field list, so these fields are never rendered inline.
func (f FieldSchema) IsSignature() bool {
	if f.Type == FieldTypeSignature {
		return true
	}
	return strings.Contains(strings.ToLower(f.ID), "sign") ||
		strings.Contains(strings.ToLower(f.Label), "sign")
}

// LabelContains reports whether the lower-cased label contains any of the words
func (f FieldSchema) LabelContains(words ...string) bool {
	label := strings.ToLower(f.Label)
	for _, w := range words {
		if strings.Contains(label, w) {
			return true
		}
	}
	return false
}
