// Package cmd contains the CLI command definitions for GitQuill.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/internal/app"
)

// NewRootCmd creates the root command for GitQuill CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitquill",
		Short: "AI-powered git commit message generator",
		Long: `GitQuill generates a one-line commit message for your staged changes
using the Gemini API and commits with it.

Run with no arguments to commit, 'gitquill push' to commit and push,
or 'gitquill regenerate' to rewrite the last commit's message.`,
		Version: version,
		// Errors are formatted once by main
		SilenceErrors: true,
		SilenceUsage:  true,
		// Default action is commit mode
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := &WorkflowFlags{}
			flags.DryRun, _ = cmd.Flags().GetBool("dry-run")
			flags.OutputFile, _ = cmd.Flags().GetString("output")
			flags.Model, _ = cmd.Flags().GetString("model")
			return runWorkflow(cmd, app.ModeCommit, flags)
		},
	}

	rootCmd.SetVersionTemplate(`GitQuill {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.gitquill/config.yaml)")

	// Commit-mode flags on the root command for the default action
	rootCmd.Flags().Bool("dry-run", false, "Generate message without committing")
	rootCmd.Flags().StringP("output", "o", "", "Write generated message to file (implies --dry-run)")
	rootCmd.Flags().String("model", "", "Override the configured model for this run")

	rootCmd.AddCommand(NewCommitCmd())
	rootCmd.AddCommand(NewPushCmd())
	rootCmd.AddCommand(NewRegenerateCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}
