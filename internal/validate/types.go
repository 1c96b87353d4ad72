package validate

import (
	"encoding/json"

	"lead-exporter/internal/transform"
)

// Record is one raw lead. Unknown keys are ignored.
type Record map[string]any

// Name returns the record's "name" field as text. Only strings, numbers and
// booleans count; any other value yields "".
func (r Record) Name() string {
	switch v := r["name"].(type) {
	case string:
		return v
	case bool:
		return transform.Display(v)
	case json.Number:
		return v.String()
	}

	if v := r["name"]; transform.IsNumeric(v) {
		return transform.Display(v)
	}

	return ""
}

// Output maps target field names to null, string or number values.
type Output map[string]any

// Outcome is the verdict for one record.
// Output is non-nil exactly when Errors is empty.
type Outcome struct {
	Valid  bool
	Errors []string
	Output Output
}
