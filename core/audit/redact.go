package audit

import (
	"encoding/json"
	"strings"
)

// RedactedValue replaces sensitive field values in audit records.
const RedactedValue = "[REDACTED]"

// DefaultSensitiveFields are masked when no explicit list is configured.
var DefaultSensitiveFields = []string{"password", "secret", "token"}

// Redactor masks configured sensitive fields in command input before it is
// written to an audit sink. Field matching is case-insensitive and applies
// at any nesting depth.
type Redactor struct {
	fields map[string]struct{}
}

// NewRedactor creates a Redactor for the given field names. With no
// arguments, DefaultSensitiveFields is used.
func NewRedactor(fields ...string) *Redactor {
	if len(fields) == 0 {
		fields = DefaultSensitiveFields
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.ToLower(f)] = struct{}{}
	}
	return &Redactor{fields: set}
}

// Redact converts the input to a map via its JSON representation and masks
// sensitive fields. Inputs that do not marshal to a JSON object (nil,
// scalars, slices) return nil since there is nothing field-shaped to audit.
func (r *Redactor) Redact(input any) map[string]any {
	if input == nil {
		return nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	r.redactMap(m)
	return m
}

func (r *Redactor) redactMap(m map[string]any) {
	for k, v := range m {
		if _, sensitive := r.fields[strings.ToLower(k)]; sensitive {
			m[k] = RedactedValue
			continue
		}
		switch nested := v.(type) {
		case map[string]any:
			r.redactMap(nested)
		case []any:
			for _, item := range nested {
				if nm, ok := item.(map[string]any); ok {
					r.redactMap(nm)
				}
			}
		}
	}
}
