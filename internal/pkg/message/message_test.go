package message

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name            string
		line            string
		wantType        string
		wantDescription string
	}{
		{
			name:            "feat message",
			line:            "FEAT: add retry with backoff",
			wantType:        "FEAT",
			wantDescription: "add retry with backoff",
		},
		{
			name:            "fix message",
			line:            "FIX: correct off-by-one in parser",
			wantType:        "FIX",
			wantDescription: "correct off-by-one in parser",
		},
		{
			name:            "chore message",
			line:            "CHORE: bump dependencies",
			wantType:        "CHORE",
			wantDescription: "bump dependencies",
		},
		{
			name:            "lowercase type is not recognized",
			line:            "feat: add retry",
			wantType:        "",
			wantDescription: "feat: add retry",
		},
		{
			name:            "unknown type is not recognized",
			line:            "PERF: speed things up",
			wantType:        "",
			wantDescription: "PERF: speed things up",
		},
		{
			name:            "no prefix",
			line:            "add retry with backoff",
			wantType:        "",
			wantDescription: "add retry with backoff",
		},
		{
			name:            "surrounding whitespace is trimmed",
			line:            "  DOCS: update readme  ",
			wantType:        "DOCS",
			wantDescription: "update readme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := Parse(tt.line)
			if cm.Type != tt.wantType {
				t.Errorf("Parse(%q).Type = %q, want %q", tt.line, cm.Type, tt.wantType)
			}
			if cm.Description != tt.wantDescription {
				t.Errorf("Parse(%q).Description = %q, want %q", tt.line, cm.Description, tt.wantDescription)
			}
		})
	}
}

func TestIsValidCommitType(t *testing.T) {
	for _, validType := range ValidCommitTypes {
		if !IsValidCommitType(validType) {
			t.Errorf("IsValidCommitType(%q) = false, want true", validType)
		}
	}

	for _, invalid := range []string{"feat", "PERF", "", "FEATURE"} {
		if IsValidCommitType(invalid) {
			t.Errorf("IsValidCommitType(%q) = true, want false", invalid)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantWarnings int
	}{
		{
			name:         "well-formed message",
			line:         "FEAT: add retry with backoff",
			wantWarnings: 0,
		},
		{
			name:         "empty message",
			line:         "",
			wantWarnings: 1,
		},
		{
			name:         "missing type prefix",
			line:         "add retry with backoff",
			wantWarnings: 1,
		},
		{
			name:         "overlong message",
			line:         "FEAT: " + strings.Repeat("x", 80),
			wantWarnings: 1,
		},
		{
			// The type regex is anchored to a single line, so a multi-line
			// message also fails the prefix check.
			name:         "multi-line message",
			line:         "FEAT: add retry\nwith more detail",
			wantWarnings: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := Validate(tt.line)
			if len(warnings) != tt.wantWarnings {
				t.Errorf("Validate(%q) returned %d warnings %v, want %d", tt.line, len(warnings), warnings, tt.wantWarnings)
			}
		})
	}
}
