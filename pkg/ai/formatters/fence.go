// Package formatters post-processes ai-service output before the rest of
// the service sees it.
package formatters

import "strings"

// StripCodeFence removes a leading ```lang line and a trailing ``` line
// when the model wrapped its answer in a code block. Unfenced input is
// only trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
