package catalog

import (
	"strconv"

	"github.com/garyjia/claim-forms/internal/domain/entity"
)

func text(id, label string) entity.FieldSchema {
	return entity.FieldSchema{ID: id, Label: label, Type: entity.FieldTypeText}
}

func area(id, label string) entity.FieldSchema {
	return entity.FieldSchema{ID: id, Label: label, Type: entity.FieldTypeTextarea}
}

func date(id, label string) entity.FieldSchema {
	return entity.FieldSchema{ID: id, Label: label, Type: entity.FieldTypeDate}
}

func number(id, label string) entity.FieldSchema {
	return entity.FieldSchema{ID: id, Label: label, Type: entity.FieldTypeNumber}
}

func choice(id, label string, options ...string) entity.FieldSchema {
	return entity.FieldSchema{ID: id, Label: label, Type: entity.FieldTypeSelect, Options: options}
}

func check(id, label string, options ...string) entity.FieldSchema {
	return entity.FieldSchema{ID: id, Label: label, Type: entity.FieldTypeCheckbox, Options: options}
}

func from(f entity.FieldSchema, source string) entity.FieldSchema {
	f.AutoFillFrom = source
	return f
}

func def(f entity.FieldSchema, value string) entity.FieldSchema {
	f.DefaultValue = value
	return f
}

func required(f entity.FieldSchema) entity.FieldSchema {
	f.Required = true
	return f
}

func section(s entity.Section, fields ...entity.FieldSchema) []entity.FieldSchema {
	for i := range fields {
		fields[i].Section = s
	}
	return fields
}

func concat(groups ...[]entity.FieldSchema) []entity.FieldSchema {
	var out []entity.FieldSchema
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func rating(lowToHigh bool) []string {
	opts := make([]string, 10)
	for i := range opts {
		n := i + 1
		if !lowToHigh {
			n = 10 - i
		}
		opts[i] = strconv.Itoa(n)
	}
	return opts
}
