// Package ai provides the Gemini-backed commit message generator for GitQuill.
package ai

// SystemPrompt is the fixed instruction sent with every generation request.
// It pins the output contract: one Conventional-Commits line, uppercase
// type, no markdown.
const SystemPrompt = `You are a git commit message generator.

Given a unified diff, respond with exactly one commit message line in the
format TYPE: description

Rules:
1. TYPE must be one of: FEAT, FIX, REFACTOR, DOCS, STYLE, TEST, CHORE
2. The description is a short imperative summary of the change
3. Respond with that single line only: no markdown fences, no explanation,
   no additional lines`

// userPromptPrefix precedes the diff in the request's user content.
const userPromptPrefix = "Here is the diff:\n\n"

// BuildUserPrompt returns the user content for a generation request.
func BuildUserPrompt(diff string) string {
	return userPromptPrefix + diff
}
