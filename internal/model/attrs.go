package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AttrString reads a string attribute. Missing or non-string values yield "".
func AttrString(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	val, ok := attrs[key]
	if !ok || val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64, int, int64, bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// AttrInt reads an integer attribute. JSON numbers arrive as float64.
func AttrInt(attrs map[string]any, key string) (int, bool) {
	if attrs == nil {
		return 0, false
	}
	switch v := attrs[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		i, err := strconv.Atoi(v.String())
		return i, err == nil
	case string:
		i, err := strconv.Atoi(v)
		return i, err == nil
	default:
		return 0, false
	}
}

// AttrStrings reads a list-of-strings attribute, accepting both []string
// (built in code) and []any (decoded from JSON). Non-string items are skipped.
func AttrStrings(attrs map[string]any, key string) []string {
	if attrs == nil {
		return nil
	}
	switch v := attrs[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, it := range v {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// JSONValue converts v to the types encoding/json decodes into: float64
// for numbers, []any for lists, map[string]any for objects. Documents built
// in code then compare equal to their exported and re-imported copies.
func JSONValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return v
	case int:
		return float64(t)
	case []string:
		if t == nil {
			return nil
		}
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		if t == nil {
			return nil
		}
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = JSONValue(it)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			out[k] = JSONValue(it)
		}
		return out
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return v
		}
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			return v
		}
		return out
	}
}

// JSONAttrs applies JSONValue to every attribute. An empty map becomes
// nil, as "attrs" is omitted from the JSON form when empty.
func JSONAttrs(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = JSONValue(v)
	}
	return out
}
