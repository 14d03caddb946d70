package entity

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// JobRecord is the external claim/job record a form is filled against.
// Upstream records carry the same attribute under both lower-camel and
// Pascal-case keys, so reads go through Get.
type JobRecord map[string]any

// Get resolves the first non-empty value among key, its Pascal-case spelling,
// and each alias with its Pascal-case spelling. Missing attributes yield "".
func (j JobRecord) Get(key string, aliases ...string) string {
	for _, k := range append([]string{key}, aliases...) {
		for _, candidate := range spellings(k) {
			if v, ok := j[candidate]; ok {
				if s := stringify(v); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func spellings(key string) []string {
	if key == "" {
		return nil
	}
	r, size := utf8.DecodeRuneInString(key)
	pascal := string(unicode.ToUpper(r)) + key[size:]
	if pascal == key {
		return []string{key}
	}
	return []string{key, pascal}
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// Job attribute keys consumed by auto-fill
const (
	JobUnderwriter  = "underwriter"
	JobClaimNo      = "claimNo"
	JobInsuredName  = "insuredName"
	JobRiskAddress  = "riskAddress"
	JobExcess       = "excess"
	JobPolicyNo     = "policyNo"
	JobAssignedTo   = "assignedTo"
	JobDescription  = "description"
	JobIncidentDate = "incidentDate"
	JobTitle        = "title"
	JobInsEmail     = "insEmail"
	JobEmail        = "email"
)

// StaffMember is a technician or administrator who can be assigned to jobs
type StaffMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}
