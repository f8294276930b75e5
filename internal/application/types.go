package application

import (
	"encoding/json"
	"strings"

	"postino/internal/resource"
)

// Re-export the read boundary's result type for use by adapters
type Result = resource.Result

// ParseValue decodes a value argument arriving as text from a transport.
// JSON literals become their typed values (true, 3, 2.5, null, objects,
// lists); anything that is not valid JSON is taken as a plain string, so
// callers can write subject=hello without quoting.
func ParseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

// ParseProperties decodes a JSON object argument, as taken by create.
func ParseProperties(field, raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ValidationError{Field: field, Message: "properties are required"}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, &ValueError{Field: field, Raw: raw, Reason: "not a JSON object"}
	}
	return m, nil
}
