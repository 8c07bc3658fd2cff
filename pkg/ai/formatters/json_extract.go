package formatters

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSONObject unmarshals s into v. When s is not JSON as a whole (a
// fenced block, a sentence around the object) the outermost {...}
// substring is tried before giving up.
func DecodeJSONObject(s string, v any) error {
	s = StripCodeFence(s)
	err := json.Unmarshal([]byte(s), v)
	if err == nil {
		return nil
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		if err2 := json.Unmarshal([]byte(s[start:end+1]), v); err2 == nil {
			return nil
		}
	}
	return fmt.Errorf("ai-service returned non-json content: %w", err)
}
