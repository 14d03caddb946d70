// Package formschema infers form fields from pasted "label: sample value" text,
// such as a claim notification copied out of an insurer portal.
package formschema

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/garyjia/claim-forms/internal/domain/entity"
)

var (
	linePattern = regexp.MustCompile(`^([^:\t]+)[\t:]\s*(.*)$`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`),
		regexp.MustCompile(`\d{1,2}\s+\w+\s+\d{4}`),
	}

	numericPattern = regexp.MustCompile(`^\d+\.?\d*$`)
)

// HeaderWords marks section headings in pasted text. Matching is case-sensitive.
var HeaderWords = []string{"Details", "Notification", "Appointment"}

// SelectOptions is the placeholder option set for inferred select fields
var SelectOptions = []string{"Current", "Pending", "Completed"}

const longValueThreshold = 50

// Parse returns one field per recognised line in input order. Lines that do
// not look like "label<sep>value" or that contain a header word are skipped.
// Field ids are left empty for the registry to assign.
func Parse(text string) []entity.FieldSchema {
	fields := []entity.FieldSchema{}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isHeader(line) {
			continue
		}

		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		sample := strings.TrimSpace(m[2])
		if label == "" {
			continue
		}

		fieldType := InferType(label, sample)
		field := entity.FieldSchema{
			Label:    label,
			Type:     fieldType,
			Required: true,
		}
		if fieldType == entity.FieldTypeSelect {
			field.Options = append([]string(nil), SelectOptions...)
		} else {
			field.Placeholder = "Enter " + label
		}
		fields = append(fields, field)
	}

	return fields
}

// InferType picks a field type from the label and a sample value. The first matching rule wins.
func InferType(label, sample string) entity.FieldType {
	l := strings.ToLower(label)

	switch {
	case strings.Contains(l, "email"):
		return entity.FieldTypeEmail
	case strings.Contains(l, "date") || looksLikeDate(sample):
		return entity.FieldTypeDate
	case containsAny(l, "amount", "sum", "estimate") || numericPattern.MatchString(sample):
		return entity.FieldTypeNumber
	case containsAny(l, "description", "address") || utf8.RuneCountInString(sample) > longValueThreshold:
		return entity.FieldTypeTextarea
	case containsAny(l, "status", "section", "peril"):
		return entity.FieldTypeSelect
	default:
		return entity.FieldTypeText
	}
}

func isHeader(line string) bool {
	for _, w := range HeaderWords {
		if strings.Contains(line, w) {
			return true
		}
	}
	return false
}

func looksLikeDate(s string) bool {
	for _, p := range datePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
