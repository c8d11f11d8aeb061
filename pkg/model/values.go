package model

import (
	"sort"
	"strings"
)

// FormValues maps field ids to raw user input.
type FormValues map[string]string

// Clone returns an independent copy. A nil receiver yields an empty map.
func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Get returns the trimmed value for id.
func (v FormValues) Get(id string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v[id])
}

// IsBlank reports whether id is absent or whitespace only.
func (v FormValues) IsBlank(id string) bool {
	return v.Get(id) == ""
}

// NonBlank returns the distinct trimmed non-blank values, longest first and
// then lexicographically, which is the order the emphasis pass applies them.
func (v FormValues) NonBlank() []string {
	seen := make(map[string]struct{}, len(v))
	out := make([]string, 0, len(v))
	for _, raw := range v {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
