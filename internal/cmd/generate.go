package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/internal/app"
)

// NewGenerateCmd creates the generate command as an alias for commit --dry-run.
func NewGenerateCmd() *cobra.Command {
	flags := &WorkflowFlags{
		DryRun: true, // Always dry-run for generate command
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message without committing",
		Long: `Generate a commit message for your staged changes without committing.

This is equivalent to running 'gitquill commit --dry-run'.

The generated message is printed to stdout by default, or can be
written to a file using the --output flag.

Examples:
  gitquill generate            # Generate and display message
  gitquill generate -o msg.txt # Save message to file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, app.ModeCommit, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write generated message to file")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Override the configured model for this run")

	return cmd
}
