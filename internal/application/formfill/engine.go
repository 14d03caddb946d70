// Package formfill runs forms against job records: auto-fill, derived
// values, staff/client sectioning, conditional visibility and validation.
package formfill

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/garyjia/claim-forms/internal/catalog"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// SignatureForms are the form names whose fill runs through the client and signature phases
var SignatureForms = []string{
	"Clearance Certificate",
	"Clearance Certificate Form",
	"SAHL Certificate Form",
	"ABSA Form",
	"Discovery Form",
}

// positionalSplit assigns indices [clientFrom, clientTo) to the client section
// for legacy forms that carry no section markers
type positionalSplit struct {
	clientFrom int
	clientTo   int
}

var positionalSections = map[string]positionalSplit{
	"ABSA Form":             {clientFrom: 5, clientTo: 13},
	"SAHL Certificate Form": {clientFrom: 5, clientTo: 11},
	"Clearance Certificate": {clientFrom: 4, clientTo: 10},
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)
)

// Inline validation messages
const (
	MsgRequired     = "This field is required"
	MsgInvalidNum   = "Enter a valid number"
	MsgInvalidEmail = "Enter a valid email address"
	MsgInvalidPhone = "Enter a valid phone number"
)

// FieldError is one failing field with its inline message
type FieldError struct {
	FieldID string `json:"fieldId"`
	Message string `json:"message"`
}

// FieldView is a field as rendered in the active section
type FieldView struct {
	entity.FieldSchema
	Value      any    `json:"value"`
	AutoFilled bool   `json:"autoFilled"`
	Error      string `json:"error,omitempty"`
}

// Engine holds the fill rules. It keeps no per-session state.
type Engine struct {
	now            func() time.Time
	signatureForms map[string]bool
	exempt         map[string]bool
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithClock overrides the time source used for currentDate
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine with the stock signature allow-list and validation exemptions
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		now:            time.Now,
		signatureForms: make(map[string]bool, len(SignatureForms)),
		exempt:         catalog.ValidationExempt,
	}
	for _, name := range SignatureForms {
		e.signatureForms[name] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RequiresSignature reports whether the form runs through the client and signature phases
func (e *Engine) RequiresSignature(form *entity.FormDefinition) bool {
	return e.signatureForms[form.Name]
}

// Prefill merges the draft with auto-filled, default and derived values.
// Non-blank draft values are never replaced. The returned set names the
// fields whose value came from the job record or staff list.
func (e *Engine) Prefill(
	form *entity.FormDefinition,
	job entity.JobRecord,
	staff []entity.StaffMember,
	draft entity.SubmissionData,
) (entity.SubmissionData, map[string]bool) {
	data := draft.Clone()
	if data == nil {
		data = entity.SubmissionData{}
	}
	autoFilled := map[string]bool{}
	kept := map[string]bool{}

	for _, f := range form.Fields {
		if !entity.IsBlank(data[f.ID]) {
			kept[f.ID] = true
			continue
		}
		if v := e.autoFillValue(f, job, staff); v != "" {
			data[f.ID] = v
			autoFilled[f.ID] = true
			continue
		}
		if f.DefaultValue != "" {
			data[f.ID] = f.DefaultValue
		}
	}

	for _, f := range form.Fields {
		if !f.AutoCalculate || kept[f.ID] {
			continue
		}
		if v, ok := calculate(form, f, data, job); ok {
			data[f.ID] = v
		}
	}

	return data, autoFilled
}

// Apply sets one field and re-derives every calculated field fed by it
func (e *Engine) Apply(form *entity.FormDefinition, job entity.JobRecord, data entity.SubmissionData, fieldID string, value any) entity.SubmissionData {
	data[fieldID] = entity.NormalizeValue(value)

	for _, f := range form.Fields {
		if !f.AutoCalculate || f.ID == fieldID || !feeds(form, f, fieldID) {
			continue
		}
		if v, ok := calculate(form, f, data, job); ok {
			data[f.ID] = v
		}
	}
	return data
}

func (e *Engine) autoFillValue(f entity.FieldSchema, job entity.JobRecord, staff []entity.StaffMember) string {
	if f.AutoFillFrom != "" {
		if v := e.sourceValue(f.AutoFillFrom, job, staff); v != "" {
			return v
		}
	}

	switch {
	case f.LabelContains("staff", "technician", "inspector"):
		return assignedStaffName(job, staff)
	case f.LabelContains("client", "insured") && f.LabelContains("name"):
		return job.Get(entity.JobInsuredName)
	case f.LabelContains("client", "insured") && f.LabelContains("email"):
		return job.Get(entity.JobInsEmail, entity.JobEmail)
	case f.LabelContains("address", "location"):
		return job.Get(entity.JobRiskAddress)
	}
	return ""
}

func (e *Engine) sourceValue(source string, job entity.JobRecord, staff []entity.StaffMember) string {
	switch source {
	case catalog.SourceCurrentDate:
		return e.now().Format("2006-01-02")
	case catalog.SourceAssignedStaffName:
		return assignedStaffName(job, staff)
	case catalog.SourceClientName:
		return job.Get(entity.JobInsuredName)
	case catalog.SourceTitle:
		return job.Get(entity.JobTitle)
	case catalog.SourceClaimNo:
		return job.Get(entity.JobClaimNo)
	default:
		return job.Get(source)
	}
}

func assignedStaffName(job entity.JobRecord, staff []entity.StaffMember) string {
	id := job.Get(entity.JobAssignedTo)
	if id == "" {
		return ""
	}
	for _, s := range staff {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}

// calculate derives an auto-calculated field. ok is false when no rule applies.
func calculate(form *entity.FormDefinition, f entity.FieldSchema, data entity.SubmissionData, job entity.JobRecord) (string, bool) {
	if len(f.SumOf) > 0 {
		var total float64
		for _, id := range f.SumOf {
			if n, ok := parseAmount(data.String(id)); ok {
				total += n
			}
		}
		return fmt.Sprintf("R %.2f", total), true
	}

	if f.LabelContains("amount") {
		paid, ok := excessPaidField(form)
		if !ok {
			return "", false
		}
		if !strings.EqualFold(strings.TrimSpace(data.String(paid.ID)), "yes") {
			return "0", true
		}
		if excess := job.Get(entity.JobExcess); excess != "" {
			return excess, true
		}
		return "0", true
	}

	return "", false
}

// feeds reports whether a change to fieldID can alter the calculated field
func feeds(form *entity.FormDefinition, calc entity.FieldSchema, fieldID string) bool {
	if len(calc.SumOf) > 0 {
		for _, id := range calc.SumOf {
			if id == fieldID {
				return true
			}
		}
		return false
	}
	if calc.LabelContains("amount") {
		paid, ok := excessPaidField(form)
		return ok && paid.ID == fieldID
	}
	return false
}

func excessPaidField(form *entity.FormDefinition) (entity.FieldSchema, bool) {
	for _, f := range form.Fields {
		if f.LabelContains("excess paid") {
			return f, true
		}
	}
	return entity.FieldSchema{}, false
}

func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R")
	s = strings.ReplaceAll(strings.ReplaceAll(s, ",", ""), " ", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// SectionFields returns the fields of one section in form order.
// Explicit markers win; unmarked fields belong to staff.
func SectionFields(form *entity.FormDefinition, section entity.Section) []entity.FieldSchema {
	out := []entity.FieldSchema{}

	if form.HasExplicitSections() {
		for _, f := range form.Fields {
			if f.Section == section || (f.Section == "" && section == entity.SectionStaff) {
				out = append(out, f)
			}
		}
		return out
	}

	split, ok := positionalSections[form.Name]
	if !ok {
		if section == entity.SectionStaff {
			out = append(out, form.Fields...)
		}
		return out
	}

	for i, f := range form.Fields {
		client := i >= split.clientFrom && i < split.clientTo
		if client == (section == entity.SectionClient) {
			out = append(out, f)
		}
	}
	return out
}

// Visible reports whether a conditional field's trigger value is present.
// The comparison is exact, unlike the case-insensitive excess-paid check in
// autocalc: showWhen "yes" hides the field for a stored "Yes".
func Visible(f entity.FieldSchema, data entity.SubmissionData) bool {
	if f.DependsOn == "" || f.ShowWhen == "" {
		return true
	}
	return data.String(f.DependsOn) == f.ShowWhen
}

// Validate checks the visible fields of one section and returns failures in field order.
// Exempt forms always pass.
func (e *Engine) Validate(form *entity.FormDefinition, data entity.SubmissionData, section entity.Section) []FieldError {
	if e.exempt[form.ID] {
		return nil
	}

	var errs []FieldError
	for _, f := range SectionFields(form, section) {
		if !Visible(f, data) || f.IsSignature() {
			continue
		}
		if msg := checkField(f, data[f.ID]); msg != "" {
			errs = append(errs, FieldError{FieldID: f.ID, Message: msg})
		}
	}
	return errs
}

func checkField(f entity.FieldSchema, v any) string {
	if entity.IsBlank(v) {
		if f.Required {
			return MsgRequired
		}
		return ""
	}

	s, isText := v.(string)
	if !isText {
		return ""
	}
	s = strings.TrimSpace(s)

	switch f.Type {
	case entity.FieldTypeNumber:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return MsgInvalidNum
		}
	case entity.FieldTypeEmail:
		if !emailPattern.MatchString(s) {
			return MsgInvalidEmail
		}
	case entity.FieldTypeTel:
		if !phonePattern.MatchString(s) {
			return MsgInvalidPhone
		}
	}
	return ""
}

// Render lists the visible, non-signature fields of a section with their values
func (e *Engine) Render(
	form *entity.FormDefinition,
	data entity.SubmissionData,
	section entity.Section,
	autoFilled map[string]bool,
	errs []FieldError,
) []FieldView {
	messages := make(map[string]string, len(errs))
	for _, fe := range errs {
		messages[fe.FieldID] = fe.Message
	}

	views := []FieldView{}
	for _, f := range SectionFields(form, section) {
		if f.IsSignature() || !Visible(f, data) {
			continue
		}
		value, ok := data[f.ID]
		if !ok {
			value = ""
		}
		views = append(views, FieldView{
			FieldSchema: f,
			Value:       value,
			AutoFilled:  autoFilled[f.ID] && !entity.IsBlank(value),
			Error:       messages[f.ID],
		})
	}
	return views
}

// DraftKey is the draft store key for a job and form
func DraftKey(jobID, formID string) string {
	return "form_" + jobID + "_" + formID
}
