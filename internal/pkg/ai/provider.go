// Package ai provides the Gemini-backed commit message generator for GitQuill.
package ai

import (
	"context"
)

// Provider defines the interface for commit message generation.
// The production implementation is the Gemini client; tests substitute fakes.
type Provider interface {
	// GenerateCommitMessage turns a unified diff into a single-line commit
	// message. The diff must be non-empty; callers handle the empty-diff
	// short circuit before reaching the provider.
	GenerateCommitMessage(ctx context.Context, diff string) (string, error)
	Name() string
}
