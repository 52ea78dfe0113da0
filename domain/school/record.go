package school

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a flat stored item, keyed by the entity's natural id attribute.
// Values coming back from the store may be string, bool, float64 or []any
// depending on how the attribute was written, so readers go through the
// typed accessors below.
type Record map[string]any

// String returns the field as a string, or "" when absent.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// Int returns the field as an int, or 0 when absent or unparseable.
func (r Record) Int(field string) int {
	v, ok := r[field]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// Bool returns the field as a bool using the same truthy coercion uploads use.
func (r Record) Bool(field string) bool {
	v, ok := r[field]
	if !ok || v == nil {
		return false
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	return ParseTruthy(v)
}

// StringList returns the field as a list of strings, normalizing the
// JSON-encoded-string form some clients send.
func (r Record) StringList(field string) []string {
	v, ok := r[field]
	if !ok || v == nil {
		return nil
	}
	return NormalizeStringList(v)
}

// WithoutPassword returns a copy of the record with the password field removed.
func (r Record) WithoutPassword() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if k == FieldPassword {
			continue
		}
		out[k] = v
	}
	return out
}

// ParseTruthy coerces an ambiguous external value into a bool. Strings are
// matched case-insensitively against the usual truthy spellings, numbers are
// true when non-zero, and anything unrecognized defaults to false.
func ParseTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "y":
			return true
		}
		return false
	default:
		return false
	}
}

// NormalizeStringList canonicalizes a value that may arrive as a list, a
// JSON-encoded string ("[\"P1\",\"P2\"]"), or a comma-separated string into
// a list of trimmed strings. Malformed input falls back to a single-element
// list, never an error.
func NormalizeStringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, strings.TrimSpace(fmt.Sprintf("%v", e)))
		}
		return out
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var parsed []string
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				for i := range parsed {
					parsed[i] = strings.TrimSpace(parsed[i])
				}
				return parsed
			}
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	default:
		return []string{strings.TrimSpace(fmt.Sprintf("%v", t))}
	}
}
