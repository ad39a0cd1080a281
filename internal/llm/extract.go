package llm

import (
	"strings"

	"github.com/bytedance/sonic"
)

// ExtractJSON returns the span from the first '{' to the last '}' in text
// when that span is valid JSON. Models often wrap the document in prose or
// code fences.
func ExtractJSON(text string) ([]byte, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, false
	}

	candidate := []byte(text[start : end+1])
	if !sonic.ConfigStd.Valid(candidate) {
		return nil, false
	}
	return candidate, true
}
