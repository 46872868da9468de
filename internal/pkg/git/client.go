// Package git provides Git operations for GitQuill.
package git

import (
	"context"
	"os/exec"
	"strings"
	"time"

	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
)

const (
	// CommandTimeout is the default timeout for local git commands.
	CommandTimeout = 10 * time.Second

	// PushTimeout is the timeout for push, a network operation.
	PushTimeout = 60 * time.Second
)

// Client defines the interface for Git operations. Diff reads are
// side-effect free; Commit, AmendLastMessage, and Push mutate the
// repository and are never rolled back by this package.
type Client interface {
	IsRepository(ctx context.Context) bool
	HasStagedChanges(ctx context.Context) (bool, error)
	GetStagedDiff(ctx context.Context) (string, error)
	GetLastCommitDiff(ctx context.Context) (string, error)
	Commit(ctx context.Context, message string) error
	AmendLastMessage(ctx context.Context, message string) error
	Push(ctx context.Context) error
	HasRemote(ctx context.Context) (bool, error)
	GetCurrentBranch(ctx context.Context) (string, error)
}

// DefaultClient implements the Client interface using exec.CommandContext.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string

	commandTimeout time.Duration
	pushTimeout    time.Duration
}

// NewClient creates a new DefaultClient with the default timeouts.
func NewClient() *DefaultClient {
	return &DefaultClient{
		commandTimeout: CommandTimeout,
		pushTimeout:    PushTimeout,
	}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	c := NewClient()
	c.workDir = workDir
	return c
}

// NewClientWithTimeouts creates a new DefaultClient with custom timeouts.
// Non-positive values fall back to the defaults.
func NewClientWithTimeouts(commandTimeout, pushTimeout time.Duration) *DefaultClient {
	c := NewClient()
	if commandTimeout > 0 {
		c.commandTimeout = commandTimeout
	}
	if pushTimeout > 0 {
		c.pushTimeout = pushTimeout
	}
	return c
}

// command builds a git command bound to the client's working directory.
func (c *DefaultClient) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}
	return cmd
}

// IsRepository reports whether the working directory is inside a git work tree.
func (c *DefaultClient) IsRepository(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	return c.command(ctx, "rev-parse", "--is-inside-work-tree").Run() == nil
}

// HasStagedChanges checks if there are any staged changes in the repository.
func (c *DefaultClient) HasStagedChanges(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	err := c.command(ctx, "diff", "--cached", "--quiet").Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, apperrors.NewTimeoutError(ctx.Err())
		}
		// Exit code 1 means there are differences (staged changes exist)
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return true, nil
		}
		return false, apperrors.NewGitError(err, "")
	}
	return false, nil
}

// GetStagedDiff returns the diff of the staged index against HEAD, which is
// exactly what a commit would record. An empty string is a valid result
// meaning there is nothing to commit.
func (c *DefaultClient) GetStagedDiff(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	output, err := c.command(ctx, "diff", "--cached").Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.NewTimeoutError(ctx.Err())
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", apperrors.NewGitError(err, string(exitErr.Stderr))
		}
		return "", apperrors.NewGitError(err, "")
	}

	return string(output), nil
}

// GetLastCommitDiff returns the diff introduced by the most recent commit,
// compared against its immediate parent. For a root commit the full patch
// is returned. The read is side-effect free.
func (c *DefaultClient) GetLastCommitDiff(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	// An empty --format yields just the patch; this also handles the
	// root commit, which has no parent to diff against.
	output, err := c.command(ctx, "show", "--format=", "--patch", "HEAD").Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.NewTimeoutError(ctx.Err())
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", apperrors.NewGitError(err, string(exitErr.Stderr))
		}
		return "", apperrors.NewGitError(err, "")
	}

	return string(output), nil
}

// Commit creates a commit with the given message as its sole message.
func (c *DefaultClient) Commit(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	output, err := c.command(ctx, "commit", "-m", message).CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewCommitFailedError(err, string(output))
	}
	return nil
}

// AmendLastMessage replaces the most recent commit's message, preserving its
// tree. The --only flag with no paths keeps staged changes out of the
// amended commit.
func (c *DefaultClient) AmendLastMessage(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	output, err := c.command(ctx, "commit", "--amend", "--only", "-m", message).CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewAmendFailedError(err, string(output))
	}
	return nil
}

// Push pushes the current branch to its configured remote.
func (c *DefaultClient) Push(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.pushTimeout)
	defer cancel()

	output, err := c.command(ctx, "push").CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewPushFailedError(err, string(output))
	}
	return nil
}

// HasRemote checks if the repository has a remote configured.
func (c *DefaultClient) HasRemote(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	output, err := c.command(ctx, "remote").Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, apperrors.NewTimeoutError(ctx.Err())
		}
		return false, apperrors.NewGitError(err, "")
	}

	return len(strings.TrimSpace(string(output))) > 0, nil
}

// GetCurrentBranch returns the name of the current branch.
func (c *DefaultClient) GetCurrentBranch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	output, err := c.command(ctx, "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.NewTimeoutError(ctx.Err())
		}
		return "", apperrors.NewGitError(err, "")
	}

	return strings.TrimSpace(string(output)), nil
}
