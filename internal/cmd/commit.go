package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/internal/app"
	"github.com/gitquill/gitquill/internal/pkg/ai"
	"github.com/gitquill/gitquill/internal/pkg/config"
	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
	"github.com/gitquill/gitquill/internal/pkg/git"
	"github.com/gitquill/gitquill/internal/pkg/history"
	"github.com/gitquill/gitquill/internal/pkg/security"
	"github.com/gitquill/gitquill/internal/pkg/toolcheck"
	"github.com/gitquill/gitquill/internal/pkg/ui"
)

// WorkflowTimeout bounds a whole run including retries and the push.
const WorkflowTimeout = 5 * time.Minute

// WorkflowFlags holds the flags shared by the workflow commands.
type WorkflowFlags struct {
	DryRun     bool
	OutputFile string
	Model      string
}

// NewCommitCmd creates the commit command.
func NewCommitCmd() *cobra.Command {
	flags := &WorkflowFlags{}

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Generate a message for the staged diff and commit",
		Long: `Generate a one-line commit message for your staged changes using
the Gemini API, then commit with it.

This is the same as running gitquill with no arguments.

Examples:
  gitquill commit             # Generate and commit
  gitquill commit --dry-run   # Generate without committing
  gitquill commit -o msg.txt  # Save message to file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, app.ModeCommit, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Generate message without committing")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write generated message to file (implies --dry-run)")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Override the configured model for this run")

	return cmd
}

// runWorkflow wires the dependencies and executes the workflow for a mode.
func runWorkflow(cmd *cobra.Command, mode app.RunMode, flags *WorkflowFlags) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), WorkflowTimeout)
	defer cancel()

	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")

	apperrors.SetVerbose(verbose)

	// git must be on PATH before anything else; failing here avoids a
	// pointless API call.
	if err := toolcheck.NewChecker().VerifyRequired(); err != nil {
		return err
	}

	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}

	// Flag overrides sit above env and file values for this run only.
	if flags.Model != "" {
		cfgMgr.SetOverride("provider.model", flags.Model)
	}

	cfg, err := cfgMgr.Load()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load config")
	}

	if flags.OutputFile != "" {
		flags.DryRun = true
	}

	if cfg.Provider.APIKey == "" {
		return apperrors.NewMissingAPIKeyError()
	}

	uiMgr := ui.NewDefaultManager(cfg.UI.ColorEnabled, cfg.UI.SpinnerStyle)

	if warning, err := security.ValidateAPIKey(cfg.Provider.APIKey); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "invalid API key")
	} else if warning != "" {
		uiMgr.ShowWarning(warning)
	}

	if verbose {
		apperrors.Info("Using model: %s", cfg.Provider.Model)
		apperrors.Info("API key: %s", security.MaskAPIKey(cfg.Provider.APIKey))
		apperrors.Info("Mode: %s", mode)
		if flags.DryRun {
			apperrors.Info("Dry-run mode enabled")
		}
	}

	gitClient := git.NewClientWithTimeouts(
		time.Duration(cfg.Git.CommandTimeoutSeconds)*time.Second,
		time.Duration(cfg.Git.PushTimeoutSeconds)*time.Second,
	)

	aiProvider, err := ai.NewGeminiProvider(ai.GeminiConfig{
		APIKey:          cfg.Provider.APIKey,
		Model:           cfg.Provider.Model,
		Endpoint:        cfg.Provider.Endpoint,
		Temperature:     cfg.Provider.Temperature,
		MaxOutputTokens: cfg.Provider.MaxOutputTokens,
	})
	if err != nil {
		return err
	}

	var historyMgr history.Manager = history.NoopManager{}
	if cfg.History.Enabled {
		historyMgr = history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)
	}

	service := app.NewCommitService(gitClient, aiProvider, uiMgr, historyMgr, cfg)

	opts := &app.RunOptions{
		DryRun:     flags.DryRun,
		OutputFile: flags.OutputFile,
	}

	return service.Run(ctx, mode, opts)
}
