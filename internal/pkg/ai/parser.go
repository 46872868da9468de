// Package ai provides the Gemini-backed commit message generator for GitQuill.
package ai

import (
	"strings"
)

// ExtractMessage derives a single-line commit message from raw model output.
// The rules, in order: strip a leading and trailing triple-backtick fence if
// present, trim surrounding whitespace, keep only the first line. An empty
// result means the response carried no usable message.
func ExtractMessage(rawText string) string {
	text := strings.TrimSpace(rawText)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// A bare word left on the fence line is a language tag
		// ("```text"), part of the fence rather than the message.
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			tag := strings.TrimSpace(text[:idx])
			if tag != "" && !strings.ContainsAny(tag, " \t") {
				text = text[idx+1:]
			}
		}
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSuffix(text, "```")
	}
	text = strings.TrimSpace(text)

	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}

	return strings.TrimSpace(text)
}
