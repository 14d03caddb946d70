package service

import (
	"encoding/json"
	"fmt"
)

// Patch is a set of top-level JSON members to shallow-merge onto a record
type Patch map[string]json.RawMessage

// mergePatch returns a new record with the patch members replacing the
// current ones. Nested values are replaced whole, never merged. Keys listed
// in protected are ignored so record identity cannot change through an update.
func mergePatch[T any](current *T, patch Patch, protected ...string) (*T, error) {
	encoded, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}

	skip := make(map[string]bool, len(protected))
	for _, k := range protected {
		skip[k] = true
	}
	for k, v := range patch {
		if !skip[k] {
			fields[k] = v
		}
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode merged record: %w", err)
	}

	out := new(T)
	if err := json.Unmarshal(merged, out); err != nil {
		return nil, invalid("", fmt.Sprintf("update does not fit the record: %v", err))
	}
	return out, nil
}
