package llm

import (
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// StripCodeFence removes a surrounding markdown code block, if any
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// FindJSONArray returns the outermost [...] span in s, or "" if none
func FindJSONArray(s string) string {
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
