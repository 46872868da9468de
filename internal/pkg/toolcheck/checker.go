// Package toolcheck verifies that external tools GitQuill shells out to
// are available before any work begins.
package toolcheck

import (
	"os/exec"

	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
)

// RequiredTools lists the executables GitQuill needs on PATH.
var RequiredTools = []string{"git"}

// Checker resolves tool names to executable paths.
// The lookup function is injectable for testing.
type Checker struct {
	lookPath func(name string) (string, error)
}

// NewChecker creates a Checker backed by the system PATH.
func NewChecker() *Checker {
	return &Checker{lookPath: exec.LookPath}
}

// IsAvailable reports whether the named tool can be resolved on PATH.
func (c *Checker) IsAvailable(name string) bool {
	_, err := c.lookPath(name)
	return err == nil
}

// Resolve returns the absolute path of the named tool, or a missing-tool
// error with an install suggestion.
func (c *Checker) Resolve(name string) (string, error) {
	path, err := c.lookPath(name)
	if err != nil {
		return "", apperrors.NewMissingToolError(name)
	}
	return path, nil
}

// VerifyRequired checks every tool in RequiredTools and returns the first
// missing one as an error. This runs before any network call so a broken
// environment fails fast.
func (c *Checker) VerifyRequired() error {
	for _, tool := range RequiredTools {
		if _, err := c.Resolve(tool); err != nil {
			return err
		}
	}
	return nil
}
