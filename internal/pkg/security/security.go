// Package security provides security utilities for GitQuill.
package security

import (
	"fmt"
	"regexp"
	"strings"
)

// geminiKeyPattern matches the shape of Google AI Studio API keys.
var geminiKeyPattern = regexp.MustCompile(`^AIza[a-zA-Z0-9_-]{10,}$`)

// MaskAPIKey masks an API key, showing only the last 4 characters.
// This should be used when logging or displaying API keys.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// ValidateAPIKey checks that a Gemini API key is present and, when it does
// not match the usual AIza... shape, flags it as suspicious without
// rejecting it outright (Google has changed key formats before).
// Returns (warning, error): warning is non-empty for an unusual shape.
func ValidateAPIKey(apiKey string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("API key is empty")
	}

	if len(apiKey) < 10 {
		return "", fmt.Errorf("API key appears to be invalid (too short)")
	}

	if !geminiKeyPattern.MatchString(apiKey) {
		return "API key does not look like a Gemini key (expected AIza...)", nil
	}

	return "", nil
}

// SanitizeForLogging sanitizes a string for safe logging by masking potential secrets.
// It looks for common patterns like API keys, passwords, and tokens.
func SanitizeForLogging(s string) string {
	patterns := []struct {
		regex       *regexp.Regexp
		replacement string
	}{
		// Google API keys
		{regexp.MustCompile(`AIza[a-zA-Z0-9_-]{10,}`), "AIza****"},
		// Keys passed as URL query parameters
		{regexp.MustCompile(`([?&]key=)[^&\s"']+`), "$1****"},
		// Bearer tokens
		{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), "Bearer ****"},
		// Generic API key patterns
		{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api_secret|secret[_-]?key)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1=****"},
		// Password patterns
		{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?[^\s"']+["']?`), "$1=****"},
	}

	result := s
	for _, p := range patterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}

	return result
}
