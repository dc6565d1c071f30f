package domain

import (
	"encoding/json"
	"sort"
)

// Well-known filter keys. The spellings match what clients already send.
const (
	FilterIncludeCompletedTasks = "include_completed_tasks"
	FilterIncludeMissedDeadline = "includeMissedDeadlines"
	FilterIncludeContributions  = "include_contributions"
	FilterFormat                = "format"
)

// Filters is the free-form section and format selection of a report.
type Filters map[string]any

// DefaultFilters includes every section and renders a PDF.
func DefaultFilters() Filters {
	return Filters{
		FilterIncludeCompletedTasks: true,
		FilterIncludeMissedDeadline: true,
		FilterIncludeContributions:  true,
		FilterFormat:                "pdf",
	}
}

// DecodeFilters parses stored filter text. Empty or malformed text yields
// an empty map, never an error.
func DecodeFilters(raw string) Filters {
	if raw == "" {
		return Filters{}
	}
	var f Filters
	if err := json.Unmarshal([]byte(raw), &f); err != nil || f == nil {
		return Filters{}
	}
	return f
}

// Encode serializes the filters. An empty map encodes as "{}".
func (f Filters) Encode() string {
	if len(f) == 0 {
		return "{}"
	}
	b, err := json.Marshal(map[string]any(f))
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Bool reads a boolean flag, falling back when the key is absent or not a bool.
func (f Filters) Bool(key string, fallback bool) bool {
	v, ok := f[key].(bool)
	if !ok {
		return fallback
	}
	return v
}

// Keys returns the filter keys in sorted order.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
