package formfill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/claim-forms/internal/catalog"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

var today = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

func coreForm(t *testing.T, id string) *entity.FormDefinition {
	t.Helper()
	for _, f := range catalog.CoreForms(today) {
		if f.ID == id {
			return f
		}
	}
	t.Fatalf("core form %s missing", id)
	return nil
}

var (
	testJob = entity.JobRecord{
		"Underwriter": "Santam",
		"claimNo":     "CLM-42",
		"InsuredName": "Jane Client",
		"riskAddress": "1 Dock Road",
		"Excess":      "1500",
		"assignedTo":  "staff-2",
		"description": "Burst geyser",
		"Email":       "jane@example.com",
	}
	testStaff = []entity.StaffMember{
		{ID: "staff-1", Name: "Other Tech"},
		{ID: "staff-2", Name: "Sam Plumber"},
	}
)

func TestEngine_RequiresSignature(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name string
		want bool
	}{
		{"ABSA Form", true},
		{"Discovery Form", true},
		{"Clearance Certificate", true},
		{"Clearance Certificate Form", true},
		{"SAHL Certificate Form", true},
		{"Liability Form", false},
		{"absa form", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.RequiresSignature(&entity.FormDefinition{Name: tt.name}))
		})
	}
}

func TestEngine_PrefillFromSources(t *testing.T) {
	e := NewEngine(WithClock(func() time.Time { return today }))
	form := coreForm(t, entity.FormIDLiability)

	data, autoFilled := e.Prefill(form, testJob, testStaff, nil)

	assert.Equal(t, "2024-03-15", data["date"])
	assert.Equal(t, "Santam", data["insurance"], "Pascal-case attribute resolves")
	assert.Equal(t, "CLM-42", data["claimNumber"])
	assert.Equal(t, "Jane Client", data["client"])
	assert.Equal(t, "Sam Plumber", data["plumber"])
	assert.Equal(t, "0", data["excessAmount"], "excess not paid")
	assert.True(t, autoFilled["plumber"])
	assert.False(t, autoFilled["excessAmount"])
}

func TestEngine_PrefillKeepsDraft(t *testing.T) {
	e := NewEngine()
	form := coreForm(t, entity.FormIDLiability)
	draft := entity.SubmissionData{"client": "Typed By Hand", "plumber": "  ", "extra": "kept"}

	data, autoFilled := e.Prefill(form, testJob, testStaff, draft)

	assert.Equal(t, "Typed By Hand", data["client"])
	assert.False(t, autoFilled["client"])
	assert.Equal(t, "Sam Plumber", data["plumber"], "whitespace draft counts as blank")
	assert.Equal(t, "kept", data["extra"])
	assert.Equal(t, "Typed By Hand", draft["client"])
	assert.Equal(t, "  ", draft["plumber"], "draft map is not mutated")
}

func TestEngine_PrefillLabelHeuristics(t *testing.T) {
	e := NewEngine()
	form := &entity.FormDefinition{
		ID:   "form-1",
		Name: "Site Visit",
		Fields: []entity.FieldSchema{
			{ID: "f1", Label: "Inspector", Type: entity.FieldTypeText},
			{ID: "f2", Label: "Insured Name", Type: entity.FieldTypeText},
			{ID: "f3", Label: "Client Email", Type: entity.FieldTypeEmail},
			{ID: "f4", Label: "Site Location", Type: entity.FieldTypeText},
			{ID: "f5", Label: "Notes", Type: entity.FieldTypeTextarea},
			{ID: "f6", Label: "Reference", Type: entity.FieldTypeText, AutoFillFrom: "title"},
			{ID: "f7", Label: "Priority", Type: entity.FieldTypeSelect, Options: []string{"Low", "High"}, DefaultValue: "Low"},
		},
	}
	job := entity.JobRecord{"InsuredName": "Jane", "Email": "jane@example.com", "RiskAddress": "Somewhere", "Title": "Geyser job", "AssignedTo": "staff-1"}

	data, _ := e.Prefill(form, job, testStaff, nil)

	assert.Equal(t, "Other Tech", data["f1"])
	assert.Equal(t, "Jane", data["f2"])
	assert.Equal(t, "jane@example.com", data["f3"])
	assert.Equal(t, "Somewhere", data["f4"])
	assert.NotContains(t, data, "f5")
	assert.Equal(t, "Geyser job", data["f6"])
	assert.Equal(t, "Low", data["f7"])
}

func TestEngine_ExcessCalculation(t *testing.T) {
	e := NewEngine()
	form := coreForm(t, entity.FormIDClearanceCertificate)

	data, _ := e.Prefill(form, testJob, testStaff, nil)
	assert.Equal(t, "0", data["amount"])

	data = e.Apply(form, testJob, data, "excess", "Yes")
	assert.Equal(t, "1500", data["amount"])

	data = e.Apply(form, entity.JobRecord{}, data, "excess", "Yes")
	assert.Equal(t, "0", data["amount"], "missing job excess")

	data = e.Apply(form, testJob, data, "excess", "No")
	assert.Equal(t, "0", data["amount"])

	data = e.Apply(form, testJob, data, "cname", "Someone")
	assert.Equal(t, "0", data["amount"], "unrelated fields do not re-derive")
}

func TestEngine_ExcessCalculationLowercaseOption(t *testing.T) {
	e := NewEngine()
	form := coreForm(t, entity.FormIDLiability)

	data, _ := e.Prefill(form, testJob, testStaff, entity.SubmissionData{"wasExcessPaid": "yes"})
	assert.Equal(t, "1500", data["excessAmount"])
}

func TestEngine_SumOf(t *testing.T) {
	e := NewEngine()
	form := coreForm(t, entity.FormIDABSA)

	data, _ := e.Prefill(form, testJob, testStaff, nil)
	assert.Equal(t, "R 0.00", data["totalEstimate"])

	data = e.Apply(form, testJob, data, "materialCost", "1200.50")
	data = e.Apply(form, testJob, data, "labourCost", "R 300")
	assert.Equal(t, "R 1500.50", data["totalEstimate"])

	data = e.Apply(form, testJob, data, "labourCost", "not a number")
	assert.Equal(t, "R 1200.50", data["totalEstimate"])
}

func TestSectionFields(t *testing.T) {
	t.Run("explicit sections", func(t *testing.T) {
		form := &entity.FormDefinition{Fields: []entity.FieldSchema{
			{ID: "a", Section: entity.SectionStaff},
			{ID: "b"},
			{ID: "c", Section: entity.SectionClient},
		}}
		assert.Equal(t, []string{"a", "b"}, ids(SectionFields(form, entity.SectionStaff)))
		assert.Equal(t, []string{"c"}, ids(SectionFields(form, entity.SectionClient)))
	})

	positional := func(name string, n int) *entity.FormDefinition {
		form := &entity.FormDefinition{Name: name}
		for i := 0; i < n; i++ {
			form.Fields = append(form.Fields, entity.FieldSchema{ID: string(rune('a' + i))})
		}
		return form
	}

	tests := []struct {
		name       string
		fields     int
		wantClient string
	}{
		{name: "ABSA Form", fields: 15, wantClient: "fghijklm"},
		{name: "SAHL Certificate Form", fields: 13, wantClient: "fghijk"},
		{name: "Clearance Certificate", fields: 12, wantClient: "efghij"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := positional(tt.name, tt.fields)
			client := SectionFields(form, entity.SectionClient)
			staff := SectionFields(form, entity.SectionStaff)

			got := ""
			for _, f := range client {
				got += f.ID
			}
			assert.Equal(t, tt.wantClient, got)
			assert.Len(t, staff, tt.fields-len(client))
		})
	}

	t.Run("unsectioned unknown form is all staff", func(t *testing.T) {
		form := positional("Custom", 4)
		assert.Len(t, SectionFields(form, entity.SectionStaff), 4)
		assert.Empty(t, SectionFields(form, entity.SectionClient))
	})
}

func TestEngine_Validate(t *testing.T) {
	e := NewEngine()
	form := &entity.FormDefinition{
		ID: "form-5",
		Fields: []entity.FieldSchema{
			{ID: "name", Label: "Name", Type: entity.FieldTypeText, Required: true},
			{ID: "cost", Label: "Cost", Type: entity.FieldTypeNumber},
			{ID: "mail", Label: "Mail", Type: entity.FieldTypeEmail},
			{ID: "tel", Label: "Phone", Type: entity.FieldTypeTel},
			{ID: "agree", Label: "Agree", Type: entity.FieldTypeCheckbox, Required: true},
			{ID: "kind", Label: "Kind", Type: entity.FieldTypeSelect, Options: []string{"a", "b"}},
			{ID: "detail", Label: "Detail", Type: entity.FieldTypeText, Required: true, DependsOn: "kind", ShowWhen: "b"},
			{ID: "clientSign", Label: "Client Signature", Type: entity.FieldTypeText, Required: true},
			{ID: "later", Label: "Later", Type: entity.FieldTypeText, Required: true, Section: entity.SectionClient},
		},
	}

	tests := []struct {
		name string
		data entity.SubmissionData
		want []FieldError
	}{
		{
			name: "blank required fields",
			data: entity.SubmissionData{"name": "   ", "agree": false},
			want: []FieldError{{"name", MsgRequired}, {"agree", MsgRequired}},
		},
		{
			name: "type checks on optional values",
			data: entity.SubmissionData{"name": "x", "agree": true, "cost": "12abc", "mail": "bad@", "tel": "555-CALL"},
			want: []FieldError{{"cost", MsgInvalidNum}, {"mail", MsgInvalidEmail}, {"tel", MsgInvalidPhone}},
		},
		{
			name: "valid values",
			data: entity.SubmissionData{"name": "x", "agree": true, "cost": "12.5", "mail": "a@b.co", "tel": "+27 (21) 555-0100"},
			want: nil,
		},
		{
			name: "visible conditional field",
			data: entity.SubmissionData{"name": "x", "agree": true, "kind": "b"},
			want: []FieldError{{"detail", MsgRequired}},
		},
		{
			name: "number rejects infinity",
			data: entity.SubmissionData{"name": "x", "agree": true, "cost": "Inf"},
			want: []FieldError{{"cost", MsgInvalidNum}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Validate(form, tt.data, entity.SectionStaff))
		})
	}

	t.Run("client section only", func(t *testing.T) {
		errs := e.Validate(form, entity.SubmissionData{}, entity.SectionClient)
		require.Len(t, errs, 1)
		assert.Equal(t, "later", errs[0].FieldID)
	})

	t.Run("exempt core forms", func(t *testing.T) {
		for id := range catalog.ValidationExempt {
			exempt := &entity.FormDefinition{ID: id, Fields: form.Fields}
			assert.Empty(t, e.Validate(exempt, entity.SubmissionData{}, entity.SectionStaff), id)
		}
	})
}

func TestVisible(t *testing.T) {
	field := entity.FieldSchema{ID: "excessAmount", DependsOn: "wasExcessPaid", ShowWhen: "yes"}

	tests := []struct {
		name  string
		field entity.FieldSchema
		data  entity.SubmissionData
		want  bool
	}{
		{"unconditional", entity.FieldSchema{ID: "notes"}, entity.SubmissionData{}, true},
		{"trigger matches", field, entity.SubmissionData{"wasExcessPaid": "yes"}, true},
		{"case differs", field, entity.SubmissionData{"wasExcessPaid": "Yes"}, false},
		{"trigger unset", field, entity.SubmissionData{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(tt.field, tt.data))
		})
	}
}

func TestEngine_Render(t *testing.T) {
	e := NewEngine()
	form := coreForm(t, entity.FormIDLiability)
	data := entity.SubmissionData{"client": "Jane", "wasExcessPaid": "no"}

	views := e.Render(form, data, entity.SectionStaff, map[string]bool{"client": true}, []FieldError{{"client", "bad"}})

	byID := map[string]FieldView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.NotContains(t, byID, "excessAmount", "hidden while excess not paid")
	assert.True(t, byID["client"].AutoFilled)
	assert.Equal(t, "bad", byID["client"].Error)
	assert.Equal(t, "", byID["plumber"].Value)

	data["wasExcessPaid"] = "yes"
	views = e.Render(form, data, entity.SectionStaff, nil, nil)
	assert.Contains(t, ids(fieldsOf(views)), "excessAmount")
}

func TestEngine_RenderHidesSignatureFields(t *testing.T) {
	e := NewEngine()
	form := &entity.FormDefinition{Fields: []entity.FieldSchema{
		{ID: "name", Label: "Name", Type: entity.FieldTypeText},
		{ID: "sig", Label: "Client", Type: entity.FieldTypeSignature},
		{ID: "clientSignOff", Label: "Sign off", Type: entity.FieldTypeText},
	}}

	views := e.Render(form, entity.SubmissionData{}, entity.SectionStaff, nil, nil)
	assert.Equal(t, []string{"name"}, ids(fieldsOf(views)))
}

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "form_J1_absa-form", DraftKey("J1", "absa-form"))
}

func ids(fields []entity.FieldSchema) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.ID
	}
	return out
}

func fieldsOf(views []FieldView) []entity.FieldSchema {
	out := make([]entity.FieldSchema, len(views))
	for i, v := range views {
		out[i] = v.FieldSchema
	}
	return out
}
