// Package message provides commit message validation for GitQuill.
package message

import (
	"regexp"
	"slices"
	"strings"
)

// ValidCommitTypes contains the uppercase commit types the generator is
// instructed to produce.
var ValidCommitTypes = []string{
	"FEAT", "FIX", "REFACTOR", "DOCS", "STYLE", "TEST", "CHORE",
}

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

// subjectRegex matches the "TYPE: description" format.
var subjectRegex = regexp.MustCompile(`^(FEAT|FIX|REFACTOR|DOCS|STYLE|TEST|CHORE):\s*(.+)$`)

// CommitMessage represents a parsed single-line commit message.
type CommitMessage struct {
	Type        string // FEAT, FIX, etc. Empty when the line has no recognized prefix.
	Description string
	Raw         string
}

// Parse parses a commit message line into its structured form.
func Parse(line string) *CommitMessage {
	line = strings.TrimSpace(line)
	cm := &CommitMessage{Raw: line}

	matches := subjectRegex.FindStringSubmatch(line)
	if matches != nil {
		cm.Type = matches[1]
		cm.Description = strings.TrimSpace(matches[2])
		return cm
	}

	cm.Description = line
	return cm
}

// IsValidCommitType reports whether the given type is one of the expected types.
func IsValidCommitType(t string) bool {
	return slices.Contains(ValidCommitTypes, t)
}

// Validate inspects a commit message line and returns human-readable
// warnings. The message is always usable as-is; model output that strays
// from the expected shape is surfaced but never rejected.
func Validate(line string) []string {
	cm := Parse(line)
	var warnings []string

	if cm.Raw == "" {
		return []string{"message is empty"}
	}

	if cm.Type == "" {
		warnings = append(warnings, "message does not start with one of "+strings.Join(ValidCommitTypes, ", "))
	}

	if len(cm.Raw) > MaxSubjectLength {
		warnings = append(warnings, "message is longer than 72 characters")
	}

	if strings.ContainsRune(cm.Raw, '\n') {
		warnings = append(warnings, "message spans multiple lines")
	}

	return warnings
}
