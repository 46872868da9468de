// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gitquill/gitquill/internal/pkg/ai"
	"github.com/gitquill/gitquill/internal/pkg/config"
	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
	"github.com/gitquill/gitquill/internal/pkg/git"
	"github.com/gitquill/gitquill/internal/pkg/history"
	"github.com/gitquill/gitquill/internal/pkg/message"
	"github.com/gitquill/gitquill/internal/pkg/ui"
)

// writeFile is a variable to allow mocking in tests.
var writeFile = os.WriteFile

// RunMode selects which git mutation follows message generation.
type RunMode int

const (
	// ModeCommit generates a message for the staged diff and commits.
	ModeCommit RunMode = iota
	// ModeCommitAndPush commits like ModeCommit, then pushes.
	ModeCommitAndPush
	// ModeRegenerate generates a message for the last commit's diff and
	// rewrites that commit's message in place.
	ModeRegenerate
)

// String returns the string representation of a RunMode.
func (m RunMode) String() string {
	switch m {
	case ModeCommit:
		return "commit"
	case ModeCommitAndPush:
		return "push"
	case ModeRegenerate:
		return "regenerate"
	default:
		return "unknown"
	}
}

// RunOptions contains options for the commit workflow.
type RunOptions struct {
	DryRun     bool
	OutputFile string
}

// CommitService orchestrates the commit message generation workflow.
type CommitService struct {
	gitClient  git.Client
	aiProvider ai.Provider
	uiManager  ui.Manager
	historyMgr history.Manager
	config     *config.Config
}

// NewCommitService creates a new CommitService with the given dependencies.
func NewCommitService(
	gitClient git.Client,
	aiProvider ai.Provider,
	uiManager ui.Manager,
	historyMgr history.Manager,
	cfg *config.Config,
) *CommitService {
	return &CommitService{
		gitClient:  gitClient,
		aiProvider: aiProvider,
		uiManager:  uiManager,
		historyMgr: historyMgr,
		config:     cfg,
	}
}

// Run executes the workflow for the given mode.
// Workflow: resolve diff → generate message → commit/amend → push (push mode only).
// A git mutation that has been applied is never rolled back: a push failure
// leaves the new commit in place and is reported as such.
func (s *CommitService) Run(ctx context.Context, mode RunMode, opts *RunOptions) error {
	if opts == nil {
		opts = &RunOptions{}
	}

	if !s.gitClient.IsRepository(ctx) {
		return apperrors.NewGitError(fmt.Errorf("not a git repository"), "")
	}

	diff, err := s.resolveDiff(ctx, mode)
	if err != nil {
		return err
	}

	// An empty diff is a no-op in every mode, not an error.
	if strings.TrimSpace(diff) == "" {
		if mode == ModeRegenerate {
			s.uiManager.ShowInfo("The last commit has no changes to describe.")
		} else {
			s.uiManager.ShowInfo("No staged changes found.")
		}
		return nil
	}

	// A push without a remote can only fail; catch it before spending an
	// API call or creating a commit.
	if mode == ModeCommitAndPush && !opts.DryRun {
		hasRemote, err := s.gitClient.HasRemote(ctx)
		if err != nil {
			return err
		}
		if !hasRemote {
			return apperrors.New(apperrors.ErrPushFailed, "no remote is configured for this repository")
		}
	}

	commitMsg, err := s.generate(ctx, diff)
	if err != nil {
		return err
	}

	s.uiManager.ShowMessage(commitMsg)
	for _, warning := range message.Validate(commitMsg) {
		s.uiManager.ShowWarning(warning)
	}

	if opts.DryRun {
		return s.handleDryRun(mode, opts, commitMsg)
	}

	return s.apply(ctx, mode, commitMsg)
}

// resolveDiff returns the diff the message should describe for the mode.
func (s *CommitService) resolveDiff(ctx context.Context, mode RunMode) (string, error) {
	spinner := s.uiManager.ShowSpinner("Reading changes...")
	spinner.Start()
	defer spinner.Stop()

	if mode == ModeRegenerate {
		return s.gitClient.GetLastCommitDiff(ctx)
	}

	// A cheap index check avoids materializing the full diff when there
	// is nothing staged.
	staged, err := s.gitClient.HasStagedChanges(ctx)
	if err != nil {
		return "", err
	}
	if !staged {
		return "", nil
	}

	return s.gitClient.GetStagedDiff(ctx)
}

// generate asks the AI provider for a commit message describing the diff.
func (s *CommitService) generate(ctx context.Context, diff string) (string, error) {
	spinner := s.uiManager.ShowSpinner("Generating commit message...")
	spinner.Start()
	defer spinner.Stop()

	return s.aiProvider.GenerateCommitMessage(ctx, diff)
}

// handleDryRun outputs the message without touching the repository.
func (s *CommitService) handleDryRun(mode RunMode, opts *RunOptions, commitMsg string) error {
	s.recordHistory(mode, commitMsg, false, false)

	if opts.OutputFile != "" {
		if err := writeFile(opts.OutputFile, []byte(commitMsg+"\n"), 0644); err != nil {
			return apperrors.NewFileSystemError(opts.OutputFile, err)
		}
		s.uiManager.ShowSuccess(fmt.Sprintf("Message written to %s", opts.OutputFile))
		return nil
	}

	s.uiManager.ShowSuccess("Dry run complete, nothing was committed")
	return nil
}

// apply performs the git mutations for the mode.
func (s *CommitService) apply(ctx context.Context, mode RunMode, commitMsg string) error {
	switch mode {
	case ModeRegenerate:
		if err := s.gitClient.AmendLastMessage(ctx, commitMsg); err != nil {
			s.recordHistory(mode, commitMsg, false, false)
			return err
		}
		s.recordHistory(mode, commitMsg, true, false)
		s.uiManager.ShowSuccess("Last commit message replaced")
		return nil

	case ModeCommitAndPush:
		if err := s.gitClient.Commit(ctx, commitMsg); err != nil {
			s.recordHistory(mode, commitMsg, false, false)
			return err
		}
		s.uiManager.ShowSuccess("Changes committed")

		spinner := s.uiManager.ShowSpinner("Pushing...")
		spinner.Start()
		err := s.gitClient.Push(ctx)
		spinner.Stop()
		if err != nil {
			// The commit already exists; report the push failure without
			// undoing it.
			s.recordHistory(mode, commitMsg, true, false)
			return err
		}
		s.recordHistory(mode, commitMsg, true, true)
		if branch, branchErr := s.gitClient.GetCurrentBranch(ctx); branchErr == nil && branch != "" {
			s.uiManager.ShowSuccess(fmt.Sprintf("Changes committed and pushed (%s)", branch))
		} else {
			s.uiManager.ShowSuccess("Changes committed and pushed")
		}
		return nil

	default:
		if err := s.gitClient.Commit(ctx, commitMsg); err != nil {
			s.recordHistory(mode, commitMsg, false, false)
			return err
		}
		s.recordHistory(mode, commitMsg, true, false)
		s.uiManager.ShowSuccess("Changes committed")
		return nil
	}
}

// recordHistory saves the generation to history. A history failure is
// reported as a warning and never fails the run.
func (s *CommitService) recordHistory(mode RunMode, commitMsg string, committed, pushed bool) {
	if s.historyMgr == nil || s.config == nil || !s.config.History.Enabled {
		return
	}

	entry := &history.Entry{
		Message:   commitMsg,
		Mode:      mode.String(),
		Model:     s.config.Provider.Model,
		Committed: committed,
		Pushed:    pushed,
	}
	if err := s.historyMgr.Save(entry); err != nil {
		s.uiManager.ShowWarning(fmt.Sprintf("failed to save to history: %v", err))
	}
}
