package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SubmissionData maps field ids to values. Values are strings, bools or string slices.
type SubmissionData map[string]any

// FormSubmission is one filed instance of a form for a job
type FormSubmission struct {
	ID               string         `json:"id"`
	JobID            string         `json:"jobId"`
	FormID           string         `json:"formId"`
	FormType         string         `json:"formType,omitempty"`
	SubmittedBy      string         `json:"submittedBy"`
	Data             SubmissionData `json:"data"`
	Signature        string         `json:"signature,omitempty"`
	SubmittedAt      time.Time      `json:"submittedAt"`
	SubmissionNumber int            `json:"submissionNumber"`
	UpdatedAt        *time.Time     `json:"updatedAt,omitempty"`
	UpdatedBy        string         `json:"updatedBy,omitempty"`
}

// SeqNumber extracts N from an id of the form "submission-N"
func (s *FormSubmission) SeqNumber() (int, bool) {
	suffix, ok := strings.CutPrefix(s.ID, "submission-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Clone returns a copy with its own data map
func (s *FormSubmission) Clone() *FormSubmission {
	c := *s
	c.Data = s.Data.Clone()
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// Clone returns a copy of the data map
func (d SubmissionData) Clone() SubmissionData {
	if d == nil {
		return nil
	}
	c := make(SubmissionData, len(d))
	for k, v := range d {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		c[k] = v
	}
	return c
}

// Normalize converts decoded JSON values into the supported value kinds.
// Arrays become []string, numbers become their decimal text.
func (d SubmissionData) Normalize() SubmissionData {
	for k, v := range d {
		d[k] = NormalizeValue(v)
	}
	return d
}

// NormalizeValue converts a single decoded JSON value
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case string, bool, []string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		list := make([]string, 0, len(val))
		for _, item := range val {
			list = append(list, fmt.Sprint(NormalizeValue(item)))
		}
		return list
	default:
		return fmt.Sprint(val)
	}
}

// String returns the text form of a field value; empty when absent
func (d SubmissionData) String(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// IsBlank reports whether a value counts as empty: missing, whitespace-only
// text, false, or an empty list
func IsBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case bool:
		return !val
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
