package tools

import "fmt"

// Params is the parameter bag attached to a tool call. Values come straight
// from decoded JSON, so numbers arrive as float64 and lists as []any. The
// typed accessors fail with a clear message instead of panicking on a
// missing or mistyped field.
type Params map[string]any

// Has reports whether the key is present, regardless of type.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns a required string field.
func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", fmt.Errorf("parameter %q is required", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string", key)
	}
	return s, nil
}

// StringOr returns a string field, or fallback when absent or mistyped.
func (p Params) StringOr(key, fallback string) string {
	if s, ok := p[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Int returns a required integer field. JSON numbers decode as float64 and
// are accepted when whole.
func (p Params) Int(key string) (int, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("parameter %q is required", key)
	}
	n, ok := toInt(v)
	if !ok {
		return 0, fmt.Errorf("parameter %q must be an integer", key)
	}
	return n, nil
}

// IntOr returns an integer field, or fallback when absent or mistyped.
func (p Params) IntOr(key string, fallback int) int {
	if n, ok := toInt(p[key]); ok {
		return n
	}
	return fallback
}

// Bool returns a boolean field, false when absent or mistyped.
func (p Params) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// StringSlice returns a list-of-strings field; nil when absent. Non-string
// elements are skipped.
func (p Params) StringSlice(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Clone returns a deep copy. Route traces snapshot params with this so a
// trace never aliases a caller's live map.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	case Params:
		return x.Clone()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	}
	return v
}
